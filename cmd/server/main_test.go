package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"

	"gorm.io/gorm"

	"mitsypos/internal/config"
	"mitsypos/internal/db/mock"
	"mitsypos/internal/events"
	"mitsypos/internal/server"
)

type stubServer struct {
	startErr       error
	stopErr        error
	blockUntilStop bool

	startCalled bool
	stopCalled  bool

	startGate   chan struct{}
	startNotify chan struct{}
}

func newStubServer(startErr, stopErr error, block bool) *stubServer {
	s := &stubServer{
		startErr:       startErr,
		stopErr:        stopErr,
		blockUntilStop: block,
		startNotify:    make(chan struct{}),
	}
	if block {
		s.startGate = make(chan struct{})
	}
	return s
}

func (s *stubServer) Start() error {
	s.startCalled = true
	close(s.startNotify)
	if s.blockUntilStop {
		<-s.startGate
	}
	return s.startErr
}

func (s *stubServer) Stop() error {
	s.stopCalled = true
	if s.blockUntilStop {
		close(s.startGate)
	}
	return s.stopErr
}

type stubPublisher struct {
	events.Recorder
	closed bool
}

func (p *stubPublisher) Close() error {
	p.closed = true
	return nil
}

// restoreHooks resets every injectable function once the test ends.
func restoreHooks(t *testing.T) {
	t.Helper()
	originalLoadEnv := loadEnvFileFunc
	originalLoadConfig := loadConfigFunc
	originalSetLogLevel := setLogLevelFunc
	originalMock := newMockDatabaseFunc
	originalConfigure := configureDatabase
	originalPublisher := newPublisherFunc
	originalNewServer := newServerFunc
	originalSubscribe := subscribeShutdownSig

	t.Cleanup(func() {
		loadEnvFileFunc = originalLoadEnv
		loadConfigFunc = originalLoadConfig
		setLogLevelFunc = originalSetLogLevel
		newMockDatabaseFunc = originalMock
		configureDatabase = originalConfigure
		newPublisherFunc = originalPublisher
		newServerFunc = originalNewServer
		subscribeShutdownSig = originalSubscribe
	})

	loadEnvFileFunc = func(string) error { return nil }
}

func TestRunUsesMockDatabaseWhenConfigured(t *testing.T) {
	restoreHooks(t)

	cfg := config.Config{
		Server: config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{
			UseMock: true,
		},
		Logging: config.LoggingConfig{Level: "debug"},
		Events:  config.EventsConfig{RedisURL: "redis://localhost:6379/0", Channel: "pos:test"},
		Stock:   config.StockConfig{RecomputeOnStart: true},
	}

	var mockCalled bool
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(level string) error { return nil }
	newMockDatabaseFunc = func(ctx context.Context) (*gorm.DB, error) {
		mockCalled = true
		return mock.New(ctx)
	}
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		t.Fatal("configureDatabase should not be called when mock is enabled")
		return nil, nil
	}
	publisher := &stubPublisher{}
	newPublisherFunc = func(_ context.Context, eventsCfg config.EventsConfig) (closingPublisher, error) {
		if eventsCfg.Channel != "pos:test" {
			t.Fatalf("unexpected channel %q", eventsCfg.Channel)
		}
		return publisher, nil
	}

	serverStub := newStubServer(http.ErrServerClosed, nil, true)
	var serverCfg server.Config
	newServerFunc = func(cfg server.Config) (serverLifecycle, error) {
		serverCfg = cfg
		return serverStub, nil
	}

	shutdownCh := make(chan os.Signal, 1)
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		return shutdownCh, func() {}
	}

	go func() {
		<-serverStub.startNotify
		shutdownCh <- syscall.SIGTERM
	}()

	code := run(context.Background())
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !mockCalled {
		t.Fatal("expected mock database to be used")
	}
	if serverCfg.Engine == nil || serverCfg.Addr != ":8080" {
		t.Fatalf("unexpected server config: %+v", serverCfg)
	}
	if !serverStub.startCalled || !serverStub.stopCalled {
		t.Fatal("expected server start and stop to be invoked")
	}
	if len(publisher.Changes()) == 0 {
		t.Fatal("expected startup recompute to publish product changes")
	}
	if !publisher.closed {
		t.Fatal("expected publisher to be closed")
	}
}

func TestRunReturnsErrorWhenServerStartFails(t *testing.T) {
	restoreHooks(t)

	cfg := config.Config{
		Server: config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{
			UseMock: true,
		},
		Logging: config.LoggingConfig{Level: "info"},
	}

	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(string) error { return nil }
	newMockDatabaseFunc = mock.New
	newPublisherFunc = func(context.Context, config.EventsConfig) (closingPublisher, error) {
		t.Fatal("publisher should not be built without a redis url")
		return nil, nil
	}

	serverStub := newStubServer(errors.New("listener failure"), nil, false)
	newServerFunc = func(server.Config) (serverLifecycle, error) {
		return serverStub, nil
	}

	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		return make(chan os.Signal), func() {}
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if serverStub.stopCalled {
		t.Fatal("server stop should not be called on start error")
	}
}

func TestRunHandlesDatabaseConfigurationError(t *testing.T) {
	restoreHooks(t)

	cfg := config.Config{
		Server:   config.ServerConfig{Addr: ":8080"},
		Database: config.DatabaseConfig{URL: "postgres://example", UseMock: false},
		Logging:  config.LoggingConfig{Level: "info"},
	}

	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(string) error { return nil }
	newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) {
		t.Fatal("mock database should not be used when URL is configured")
		return nil, nil
	}
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		return nil, errors.New("db connection refused")
	}

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1 on database configuration failure, got %d", code)
	}
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	restoreHooks(t)

	loadConfigFunc = func() (config.Config, error) {
		return config.Config{Server: config.ServerConfig{Addr: ":8080"}, Logging: config.LoggingConfig{Level: "info"}}, nil
	}
	setLogLevelFunc = func(string) error { return nil }
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		t.Fatal("configureDatabase should not be called without a URL")
		return nil, nil
	}

	if code := run(context.Background()); code != 1 {
		t.Fatalf("expected exit code 1 without database url, got %d", code)
	}
}

func TestRunReturnsErrorWhenLogLevelInvalid(t *testing.T) {
	restoreHooks(t)

	cfg := config.Config{Logging: config.LoggingConfig{Level: "invalid"}}
	loadConfigFunc = func() (config.Config, error) { return cfg, nil }
	setLogLevelFunc = func(string) error { return errors.New("invalid level") }

	code := run(context.Background())
	if code != 1 {
		t.Fatalf("expected exit code 1 for invalid log level, got %d", code)
	}
}
