package monitor

import (
	"reflect"
	"testing"

	"github.com/michaelkaiserz/mongomanager/models"
)

func testConnection() *models.Connection {
	return &models.Connection{ID: 7, Name: "staging", Host: "db.internal", Port: 27017}
}

func resultWith(responseTime float64, resident, current int64) *ProbeResult {
	return &ProbeResult{
		ResponseTime: responseTime,
		Server: &ServerStatus{
			Uptime:      3600,
			Mem:         &MemoryStats{Resident: resident},
			Connections: &ConnectionStats{Current: current},
		},
	}
}

// TestEvaluateAlerts_ThresholdIsStrict verifies the response-time rule uses
// strict greater-than: exactly 1000ms must not fire, 1001ms must.
func TestEvaluateAlerts_ThresholdIsStrict(t *testing.T) {
	conn := testConnection()

	if alerts := EvaluateAlerts(conn, resultWith(1000, 500, 50)); len(alerts) != 0 {
		t.Errorf("Expected no alerts at exactly 1000ms, got %d", len(alerts))
	}

	alerts := EvaluateAlerts(conn, resultWith(1001, 500, 50))
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 alert at 1001ms, got %d", len(alerts))
	}
	if alerts[0].Type != AlertHighResponseTime {
		t.Errorf("Expected %s, got %s", AlertHighResponseTime, alerts[0].Type)
	}
}

// TestEvaluateAlerts_SingleRuleFires feeds a result where only the response
// time is out of range.
func TestEvaluateAlerts_SingleRuleFires(t *testing.T) {
	alerts := EvaluateAlerts(testConnection(), resultWith(1500, 500, 50))

	if len(alerts) != 1 {
		t.Fatalf("Expected exactly 1 alert, got %d", len(alerts))
	}
	if alerts[0].Type != AlertHighResponseTime {
		t.Errorf("Expected %s, got %s", AlertHighResponseTime, alerts[0].Type)
	}
	if alerts[0].Severity != "warning" {
		t.Errorf("Expected warning severity, got %s", alerts[0].Severity)
	}
	if alerts[0].ConnectionID != 7 || alerts[0].ConnectionName != "staging" {
		t.Errorf("Alert not attributed to source connection: %+v", alerts[0])
	}
}

// TestEvaluateAlerts_AllRulesFireIndependently feeds a result exceeding all
// three thresholds and expects one alert per kind.
func TestEvaluateAlerts_AllRulesFireIndependently(t *testing.T) {
	alerts := EvaluateAlerts(testConnection(), resultWith(2000, 2048, 250))

	if len(alerts) != 3 {
		t.Fatalf("Expected exactly 3 alerts, got %d", len(alerts))
	}

	kinds := map[string]bool{}
	for _, a := range alerts {
		kinds[a.Type] = true
	}
	for _, want := range []string{AlertHighResponseTime, AlertHighMemoryUsage, AlertHighConnectionCount} {
		if !kinds[want] {
			t.Errorf("Missing alert kind %s", want)
		}
	}
}

// TestEvaluateAlerts_MissingGroupsSkipRules verifies absent serverStatus
// sections skip their rules silently instead of alerting or failing.
func TestEvaluateAlerts_MissingGroupsSkipRules(t *testing.T) {
	result := &ProbeResult{
		ResponseTime: 500,
		Server:       &ServerStatus{Uptime: 60}, // no mem, no connections
	}
	if alerts := EvaluateAlerts(testConnection(), result); len(alerts) != 0 {
		t.Errorf("Expected no alerts with missing metric groups, got %d", len(alerts))
	}

	// Even with no serverStatus at all, the response-time rule still works.
	bare := &ProbeResult{ResponseTime: 1200}
	alerts := EvaluateAlerts(testConnection(), bare)
	if len(alerts) != 1 || alerts[0].Type != AlertHighResponseTime {
		t.Errorf("Expected only the response-time alert, got %+v", alerts)
	}
}

// TestEvaluateAlerts_IsPure verifies identical inputs yield identical
// output across calls.
func TestEvaluateAlerts_IsPure(t *testing.T) {
	conn := testConnection()
	result := resultWith(2000, 2048, 250)

	first := EvaluateAlerts(conn, result)
	second := EvaluateAlerts(conn, result)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Evaluator is not pure:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// TestAlertStore_BoundedEviction fills the buffer past capacity and checks
// the oldest entries are evicted first.
func TestAlertStore_BoundedEviction(t *testing.T) {
	store := NewAlertStore(3)

	for i := 0; i < 5; i++ {
		store.Add(Alert{Type: AlertHighResponseTime, Message: string(rune('a' + i))})
	}

	recent := store.Recent()
	if len(recent) != 3 {
		t.Fatalf("Expected 3 buffered alerts, got %d", len(recent))
	}
	// Newest first: e, d, c. Entries a and b were evicted.
	if recent[0].Message != "e" || recent[2].Message != "c" {
		t.Errorf("Unexpected buffer contents: %+v", recent)
	}
}

// TestAlertStore_AssignsIdentity verifies insertion stamps id and timestamp.
func TestAlertStore_AssignsIdentity(t *testing.T) {
	store := NewAlertStore(10)
	store.Add(Alert{Type: AlertHighMemoryUsage, Message: "m"})

	recent := store.Recent()
	if len(recent) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(recent))
	}
	if recent[0].ID == "" {
		t.Error("Expected alert ID to be assigned on insertion")
	}
	if recent[0].Timestamp.IsZero() {
		t.Error("Expected alert timestamp to be assigned on insertion")
	}
}
