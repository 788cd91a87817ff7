package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResponseWriter_WriteHeader(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	rw.WriteHeader(http.StatusNotFound)

	if rw.Status() != http.StatusNotFound {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusNotFound)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("underlying status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if !rw.Written() {
		t.Error("Written() = false, want true")
	}
}

func TestResponseWriter_WriteHeader_OnlyOnce(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	rw.WriteHeader(http.StatusOK)
	rw.WriteHeader(http.StatusNotFound)

	if rw.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusOK)
	}
	if w.Code != http.StatusOK {
		t.Errorf("underlying status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestResponseWriter_Write(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	n, err := rw.Write([]byte("hello world"))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != 11 {
		t.Errorf("Write() = %d, want 11", n)
	}
	if rw.Size() != 11 {
		t.Errorf("Size() = %d, want 11", rw.Size())
	}
	if rw.Status() != http.StatusOK {
		t.Errorf("Status() = %d, want %d", rw.Status(), http.StatusOK)
	}
	if w.Body.String() != "hello world" {
		t.Errorf("body = %q, want %q", w.Body.String(), "hello world")
	}
}

func TestResponseWriter_Hooks(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	var order []string
	rw.OnBeforeWrite(func() {
		order = append(order, "first")
		rw.Header().Set("X-Hook", "yes")
	})
	rw.OnBeforeWrite(func() { order = append(order, "second") })

	_, _ = rw.Write([]byte("a"))
	_, _ = rw.Write([]byte("b"))
	rw.WriteHeader(http.StatusTeapot)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hooks ran as %v, want [first second]", order)
	}
	if w.Header().Get("X-Hook") != "yes" {
		t.Error("header set by hook is missing")
	}
}

func TestResponseWriter_ReusesWrapper(t *testing.T) {
	rw := NewResponseWriter(httptest.NewRecorder())
	if NewResponseWriter(rw) != rw {
		t.Error("NewResponseWriter wrapped an existing ResponseWriter twice")
	}
}

func TestResponseWriter_Unwrap(t *testing.T) {
	w := httptest.NewRecorder()
	rw := NewResponseWriter(w)

	if rw.Unwrap() != w {
		t.Error("Unwrap() did not return the underlying writer")
	}

	rw.Flush()
	if !w.Flushed {
		t.Error("Flush() did not reach the underlying writer")
	}
}
