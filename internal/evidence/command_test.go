package evidence

import (
	"context"
	"strings"
	"testing"
)

func TestCommandEvidence_CapturesStdout(t *testing.T) {
	bundle, err := CommandEvidence(context.Background(), "echo evidence line", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Text != "evidence line" {
		t.Errorf("Text = %q", bundle.Text)
	}
	if bundle.SessionsIncluded != 1 || bundle.SessionsScanned != 1 {
		t.Errorf("session counts = %d/%d, want 1/1", bundle.SessionsIncluded, bundle.SessionsScanned)
	}
}

func TestCommandEvidence_CountsSessionHeaders(t *testing.T) {
	cmd := `printf '### Session: a (x)\nUser: hi\n### Session: b (y)\nUser: yo\n'`
	bundle, err := CommandEvidence(context.Background(), cmd, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.SessionsIncluded != 2 {
		t.Errorf("SessionsIncluded = %d, want 2", bundle.SessionsIncluded)
	}
}

func TestCommandEvidence_EmptyOutput(t *testing.T) {
	bundle, err := CommandEvidence(context.Background(), "true", 1000)
	if err != nil {
		t.Fatal(err)
	}
	if bundle.Text != "" || bundle.SessionsIncluded != 0 {
		t.Errorf("bundle = %+v, want empty with zero sessions", bundle)
	}
}

func TestCommandEvidence_Truncates(t *testing.T) {
	bundle, err := CommandEvidence(context.Background(), `printf '%0.sx' $(seq 1 300)`, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(bundle.Text, "[...truncated, 200 bytes omitted]") {
		t.Errorf("truncation marker missing: %q", bundle.Text)
	}
	if !strings.HasPrefix(bundle.Text, strings.Repeat("x", 100)) {
		t.Errorf("kept prefix wrong")
	}
}

func TestCommandEvidence_Failure(t *testing.T) {
	_, err := CommandEvidence(context.Background(), "exit 9", 1000)
	if err == nil {
		t.Fatal("want error from failing command")
	}
}
