package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestIncrementTaskOperation(t *testing.T) {
	before := testutil.ToFloat64(TaskOperationCount.WithLabelValues("create", "ok"))
	IncrementTaskOperation("create", "ok")
	IncrementTaskOperation("create", "ok")
	after := testutil.ToFloat64(TaskOperationCount.WithLabelValues("create", "ok"))

	if after-before != 2 {
		t.Fatalf("expected counter to grow by 2, got %v", after-before)
	}
}

func TestIncrementSlowQuery(t *testing.T) {
	before := testutil.ToFloat64(DBSlowQueryCount.WithLabelValues("SELECT"))
	IncrementSlowQuery("SELECT")
	if got := testutil.ToFloat64(DBSlowQueryCount.WithLabelValues("SELECT")) - before; got != 1 {
		t.Fatalf("expected one slow query, got %v", got)
	}
}

func TestRecordDurationsRegisterSamples(t *testing.T) {
	RecordDBQueryDuration("insert", "tasks", 3*time.Millisecond)
	RecordHTTPRequestDuration("GET", "/TaskManager/tasks", "200", 5*time.Millisecond)

	if n := testutil.CollectAndCount(DBQueryDuration); n == 0 {
		t.Fatal("expected db duration series")
	}
	if n := testutil.CollectAndCount(HTTPRequestDuration); n == 0 {
		t.Fatal("expected http duration series")
	}
}
