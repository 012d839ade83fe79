package app

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/WXR-SEU/CtrlC-C/internal/config"
	"github.com/WXR-SEU/CtrlC-C/internal/services/dialog"
	"github.com/WXR-SEU/CtrlC-C/internal/services/hook"
	"github.com/WXR-SEU/CtrlC-C/internal/services/instance"
	"github.com/WXR-SEU/CtrlC-C/internal/services/tray"
	"github.com/WXR-SEU/CtrlC-C/internal/utils"
)

type recorder struct {
	mutex  sync.Mutex
	events []string
}

func (recorder *recorder) add(event string) {
	recorder.mutex.Lock()
	recorder.events = append(recorder.events, event)
	recorder.mutex.Unlock()
}

func (recorder *recorder) list() []string {
	recorder.mutex.Lock()
	defer recorder.mutex.Unlock()
	return append([]string(nil), recorder.events...)
}

type fakeGuard struct {
	recorder   *recorder
	acquireErr error
}

func (guard *fakeGuard) Acquire() error {
	guard.recorder.add("guard.acquire")
	return guard.acquireErr
}

func (guard *fakeGuard) Release() error {
	guard.recorder.add("guard.release")
	return nil
}

type fakeCleaner struct {
	removed []string
}

func (cleaner *fakeCleaner) Remove(valueName string) error {
	cleaner.removed = append(cleaner.removed, valueName)
	return errors.New("registry unavailable")
}

type fakeNotifier struct {
	titles   []string
	messages []string
}

func (notifier *fakeNotifier) Show(title, message string) error {
	notifier.titles = append(notifier.titles, title)
	notifier.messages = append(notifier.messages, message)
	return nil
}

type fakeMonitor struct {
	recorder *recorder
	startErr error
	mutex    sync.Mutex
	handler  hook.Handler
}

func (monitor *fakeMonitor) Start(handler hook.Handler) error {
	monitor.recorder.add("monitor.start")
	if monitor.startErr != nil {
		return monitor.startErr
	}
	monitor.mutex.Lock()
	monitor.handler = handler
	monitor.mutex.Unlock()
	return nil
}

func (monitor *fakeMonitor) Stop() error {
	monitor.recorder.add("monitor.stop")
	monitor.mutex.Lock()
	monitor.handler = nil
	monitor.mutex.Unlock()
	return nil
}

func (monitor *fakeMonitor) emit(event hook.KeyEvent) {
	monitor.mutex.Lock()
	handler := monitor.handler
	monitor.mutex.Unlock()
	if handler != nil {
		handler(event)
	}
}

type fakeTray struct {
	recorder *recorder
	running  chan tray.Handlers
	stopped  chan struct{}
	once     sync.Once
}

func newFakeTray(recorder *recorder) *fakeTray {
	return &fakeTray{recorder: recorder, running: make(chan tray.Handlers, 1), stopped: make(chan struct{})}
}

func (loop *fakeTray) Run(handlers tray.Handlers) error {
	loop.recorder.add("tray.run")
	loop.running <- handlers
	<-loop.stopped
	return nil
}

func (loop *fakeTray) Stop() {
	loop.once.Do(func() {
		loop.recorder.add("tray.stop")
		close(loop.stopped)
	})
}

type memoryAccess struct {
	mutex   sync.Mutex
	text    string
	written chan string
}

func (access *memoryAccess) ReadText() (string, error) {
	access.mutex.Lock()
	defer access.mutex.Unlock()
	return access.text, nil
}

func (access *memoryAccess) WriteText(text string) error {
	access.mutex.Lock()
	access.text = text
	access.mutex.Unlock()
	access.written <- text
	return nil
}

type fixture struct {
	recorder *recorder
	guard    *fakeGuard
	cleaner  *fakeCleaner
	notifier *fakeNotifier
	monitor  *fakeMonitor
	tray     *fakeTray
	access   *memoryAccess
}

func newFixture(clipboardText string) *fixture {
	events := &recorder{}
	return &fixture{
		recorder: events,
		guard:    &fakeGuard{recorder: events},
		cleaner:  &fakeCleaner{},
		notifier: &fakeNotifier{},
		monitor:  &fakeMonitor{recorder: events},
		tray:     newFakeTray(events),
		access:   &memoryAccess{text: clipboardText, written: make(chan string, 1)},
	}
}

func (fixture *fixture) dependencies() Dependencies {
	return Dependencies{
		Guard:    fixture.guard,
		Cleaner:  fixture.cleaner,
		Notifier: fixture.notifier,
		Monitor:  fixture.monitor,
		Access:   fixture.access,
		Tray:     fixture.tray,
	}
}

func testSettings() config.Settings {
	settings := config.DefaultSettings()
	settings.PostCopyDelay = 0
	settings.ClipboardRetry.Backoff = time.Millisecond
	return settings
}

func waitForTray(t *testing.T, loop *fakeTray) tray.Handlers {
	t.Helper()
	select {
	case handlers := <-loop.running:
		return handlers
	case <-time.After(time.Second):
		t.Fatalf("tray loop did not start")
		return tray.Handlers{}
	}
}

func TestRunNormalizesOnDoublePressAndExitsInOrder(t *testing.T) {
	fixture := newFixture("Hello\r\nWorld")
	application := New(testSettings(), fixture.dependencies(), zaptest.NewLogger(t))

	result := make(chan error, 1)
	go func() { result <- application.Run(context.Background()) }()
	handlers := waitForTray(t, fixture.tray)

	origin := time.Now()
	fixture.monitor.emit(hook.KeyEvent{ModifierHeld: true, At: origin})
	fixture.monitor.emit(hook.KeyEvent{ModifierHeld: true, At: origin.Add(300 * time.Millisecond)})

	select {
	case written := <-fixture.access.written:
		if written != "Hello World" {
			t.Fatalf("expected %q, got %q", "Hello World", written)
		}
	case <-time.After(time.Second):
		t.Fatalf("clipboard was not normalized")
	}

	handlers.Exit()
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after exit")
	}

	expected := []string{"guard.acquire", "monitor.start", "tray.run", "tray.stop", "monitor.stop", "guard.release"}
	if events := fixture.recorder.list(); !reflect.DeepEqual(events, expected) {
		t.Fatalf("expected events %v, got %v", expected, events)
	}
	if !reflect.DeepEqual(fixture.cleaner.removed, []string{utils.ApplicationName}) {
		t.Fatalf("expected startup cleanup of %q, got %v", utils.ApplicationName, fixture.cleaner.removed)
	}
}

func TestRunToggleReachesPipeline(t *testing.T) {
	fixture := newFixture("Hello   World\n")
	application := New(testSettings(), fixture.dependencies(), nil)

	result := make(chan error, 1)
	go func() { result <- application.Run(context.Background()) }()
	handlers := waitForTray(t, fixture.tray)

	if handlers.StripBlankspace() {
		t.Fatalf("expected strip blankspace to start disabled")
	}
	if !handlers.ToggleStripBlankspace() {
		t.Fatalf("expected toggle to enable strip blankspace")
	}

	origin := time.Now()
	fixture.monitor.emit(hook.KeyEvent{ModifierHeld: true, At: origin})
	fixture.monitor.emit(hook.KeyEvent{ModifierHeld: true, At: origin.Add(100 * time.Millisecond)})

	select {
	case written := <-fixture.access.written:
		if written != "HelloWorld" {
			t.Fatalf("expected %q, got %q", "HelloWorld", written)
		}
	case <-time.After(time.Second):
		t.Fatalf("clipboard was not normalized")
	}
	handlers.Exit()
	if err := <-result; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunShowsNoticeWhenAlreadyRunning(t *testing.T) {
	fixture := newFixture("")
	fixture.guard.acquireErr = instance.ErrAlreadyRunning
	application := New(testSettings(), fixture.dependencies(), nil)

	if err := application.Run(context.Background()); err != nil {
		t.Fatalf("expected nil error for duplicate instance, got %v", err)
	}
	if !reflect.DeepEqual(fixture.notifier.titles, []string{dialog.AlreadyRunningTitle}) {
		t.Fatalf("expected duplicate notice, got %v", fixture.notifier.titles)
	}
	if events := fixture.recorder.list(); !reflect.DeepEqual(events, []string{"guard.acquire"}) {
		t.Fatalf("expected no component to start, got %v", events)
	}
}

func TestRunReportsGuardFailure(t *testing.T) {
	fixture := newFixture("")
	fixture.guard.acquireErr = errors.New("access denied")
	if err := New(testSettings(), fixture.dependencies(), nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(fixture.notifier.titles) != 0 {
		t.Fatalf("expected no duplicate notice")
	}
}

func TestRunReportsMonitorFailure(t *testing.T) {
	fixture := newFixture("")
	fixture.monitor.startErr = hook.ErrUnsupported
	err := New(testSettings(), fixture.dependencies(), nil).Run(context.Background())
	if !errors.Is(err, hook.ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	expected := []string{"guard.acquire", "monitor.start", "guard.release"}
	if events := fixture.recorder.list(); !reflect.DeepEqual(events, expected) {
		t.Fatalf("expected events %v, got %v", expected, events)
	}
}

func TestRunStopsWhenContextEnds(t *testing.T) {
	fixture := newFixture("")
	ctx, cancel := context.WithCancel(context.Background())
	result := make(chan error, 1)
	go func() { result <- New(testSettings(), fixture.dependencies(), nil).Run(ctx) }()
	waitForTray(t, fixture.tray)

	cancel()
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancellation")
	}
	expected := []string{"guard.acquire", "monitor.start", "tray.run", "tray.stop", "monitor.stop", "guard.release"}
	if events := fixture.recorder.list(); !reflect.DeepEqual(events, expected) {
		t.Fatalf("expected events %v, got %v", expected, events)
	}
}
