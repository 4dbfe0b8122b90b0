package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopScenarioHooks{}
	s.OnAppend("move")
	s.OnStep(Forward, "link")
	s.OnStep(Backward, "link")
	s.OnImport("json", 12, nil)
	s.OnImport("yaml", 0, errors.New("bad document"))

	st := NoopStoreHooks{}
	st.OnStoreOp(ctx, "file", "get", time.Millisecond, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/scenarios/{id}", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Scenario().(NoopScenarioHooks); !ok {
		t.Error("Scenario() should return NoopScenarioHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customScenario := &testScenarioHooks{}
	SetScenarioHooks(customScenario)
	if Scenario() != customScenario {
		t.Error("SetScenarioHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Scenario().OnAppend("color")
	if customScenario.appends != 1 {
		t.Errorf("appends = %d, want 1", customScenario.appends)
	}

	Reset()
	if _, ok := Scenario().(NoopScenarioHooks); !ok {
		t.Error("Reset() should restore NoopScenarioHooks")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testScenarioHooks{}
	SetScenarioHooks(custom)
	SetScenarioHooks(nil)
	if Scenario() != custom {
		t.Error("SetScenarioHooks(nil) should be ignored")
	}
}

type testScenarioHooks struct {
	NoopScenarioHooks
	appends int
}

func (h *testScenarioHooks) OnAppend(string) { h.appends++ }

type testStoreHooks struct {
	NoopStoreHooks
	ops int
}

type testHTTPHooks struct {
	NoopHTTPHooks
	requests int
}
