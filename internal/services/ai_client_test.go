package services

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestStreamSSE(t *testing.T) {
	input := strings.Join([]string{
		": keep-alive comment",
		"event: message",
		"data: {\"a\":1}",
		"",
		"data: first line",
		"data: second line",
		"",
		"event: done",
		"data: [DONE]",
		"",
	}, "\n") + "\n"

	type captured struct {
		event string
		data  string
	}
	var got []captured
	err := streamSSE(strings.NewReader(input), func(event, data string) error {
		got = append(got, captured{event, data})
		return nil
	})
	if err != nil {
		t.Fatalf("streamSSE: %v", err)
	}

	want := []captured{
		{"message", `{"a":1}`},
		{"", "first line\nsecond line"},
		{"done", "[DONE]"},
	}
	if len(got) != len(want) {
		t.Fatalf("events = %d, want %d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestStreamSSEFlushesTrailingEventAtEOF(t *testing.T) {
	var got []string
	err := streamSSE(strings.NewReader("data: tail\n"), func(event, data string) error {
		got = append(got, data)
		return nil
	})
	if err != nil {
		t.Fatalf("streamSSE: %v", err)
	}
	if len(got) != 1 || got[0] != "tail" {
		t.Fatalf("got %v, want the unterminated trailing event", got)
	}
}

func TestStreamSSEStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := streamSSE(strings.NewReader("data: one\n\ndata: two\n\n"), func(event, data string) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("err = %v, want callback error", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want parsing to stop after the error", calls)
	}
}

func TestIsRetryableHTTP(t *testing.T) {
	retryable := []int{http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable}
	for _, code := range retryable {
		if !isRetryableHTTP(code) {
			t.Errorf("code %d should be retryable", code)
		}
	}
	terminal := []int{http.StatusOK, http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound}
	for _, code := range terminal {
		if isRetryableHTTP(code) {
			t.Errorf("code %d should not be retryable", code)
		}
	}
}
