package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestRecordBackendRequest(t *testing.T) {
	backendRequestsTotal.Reset()

	RecordBackendRequest("project", "GET", "ok")
	RecordBackendRequest("project", "GET", "ok")
	RecordBackendRequest("project", "GET", "http_error")

	if v := counterValue(t, backendRequestsTotal.WithLabelValues("project", "GET", "ok")); v != 2 {
		t.Errorf("Expected counter value 2, got %f", v)
	}
	if v := counterValue(t, backendRequestsTotal.WithLabelValues("project", "GET", "http_error")); v != 1 {
		t.Errorf("Expected counter value 1, got %f", v)
	}
}

func TestRecordStaleResponse(t *testing.T) {
	staleResponsesTotal.Reset()

	RecordStaleResponse("client")

	if v := counterValue(t, staleResponsesTotal.WithLabelValues("client")); v != 1 {
		t.Errorf("Expected counter value 1, got %f", v)
	}
}

func TestRecordRejectedMutation(t *testing.T) {
	rejectedMutationsTotal.Reset()

	RecordRejectedMutation("project", "complete")
	RecordRejectedMutation("project", "complete")

	if v := counterValue(t, rejectedMutationsTotal.WithLabelValues("project", "complete")); v != 2 {
		t.Errorf("Expected counter value 2, got %f", v)
	}
}

func TestRecordBackendDuration(t *testing.T) {
	backendRequestDuration.Reset()

	RecordBackendDuration("country", "GET", 0.2)
	RecordBackendDuration("country", "GET", 1.7)

	m := &dto.Metric{}
	obs, err := backendRequestDuration.GetMetricWithLabelValues("country", "GET")
	if err != nil {
		t.Fatalf("Failed to get histogram: %v", err)
	}
	if err := obs.(interface{ Write(*dto.Metric) error }).Write(m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if m.Histogram.GetSampleCount() != 2 {
		t.Errorf("Expected 2 samples, got %d", m.Histogram.GetSampleCount())
	}
}

func TestRecordGuardRedirect(t *testing.T) {
	guardRedirectsTotal.Reset()

	RecordGuardRedirect("forbidden")

	if v := counterValue(t, guardRedirectsTotal.WithLabelValues("forbidden")); v != 1 {
		t.Errorf("Expected counter value 1, got %f", v)
	}
	if v := counterValue(t, guardRedirectsTotal.WithLabelValues("unauthenticated")); v != 0 {
		t.Errorf("Expected counter value 0, got %f", v)
	}
}
