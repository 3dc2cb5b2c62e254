package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "publishers.yaml", `
publishers:
  - id: console
    type: stdout
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: queue
    type: sqs
    sqs:
      uri: https://sqs.ap-south-1.amazonaws.com/123/bulletins
      region: ap-south-1
      endpoint: http://localhost:4566
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "console" || enabled[1].ID != "queue" {
		t.Fatalf("unexpected enabled publishers %#v", enabled)
	}
	if enabled[0].Stdout == nil || enabled[0].Stdout.Stream != "stdout" {
		t.Fatalf("stdout defaults not applied: %#v", enabled[0].Stdout)
	}

	queue, ok := reg.ByID("queue")
	if !ok {
		t.Fatalf("ByID(queue) not found")
	}
	if queue.SQS.Region != "ap-south-1" || queue.SQS.Endpoint != "http://localhost:4566" {
		t.Fatalf("inline aws settings not decoded: %#v", queue.SQS)
	}
	if _, ok := reg.ByID(" "); ok {
		t.Fatalf("blank id should not resolve")
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "publishers.json", `{
  "publishers": [
    {"id": "topic", "type": "SNS", "sns": {"topic_arn": "arn:aws:sns:us-east-1:1:b", "region": "us-east-1"}},
    {"id": "ps", "type": "gcp_pubsub", "gcp_pubsub": {"project_id": "p", "topic": "t"}}
  ]
}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	all := reg.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 publishers, got %d", len(all))
	}
	if all[0].Type != TypeSNS || all[0].SNS.Region != "us-east-1" {
		t.Fatalf("unexpected sns entry %#v", all[0])
	}
	if all[1].GCPPubSub.Topic != "t" {
		t.Fatalf("unexpected pubsub entry %#v", all[1])
	}
}

func TestLoadRegistryRejectsDuplicatesAndEmpty(t *testing.T) {
	dup := writeFile(t, "dup.yaml", `
publishers:
  - id: a
    type: stdout
  - id: a
    type: stdout
`)
	if _, err := LoadRegistry(dup); err == nil {
		t.Fatalf("expected duplicate id error")
	}

	empty := writeFile(t, "empty.yaml", "publishers: []\n")
	if _, err := LoadRegistry(empty); err == nil {
		t.Fatalf("expected error for empty publishers list")
	}

	if _, err := LoadRegistry("  "); err == nil {
		t.Fatalf("expected error for blank path")
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  PublisherConfig
	}{
		{"missing id", PublisherConfig{Type: TypeStdout}},
		{"missing type", PublisherConfig{ID: "x"}},
		{"missing http", PublisherConfig{ID: "h1", Type: TypeHTTP}},
		{"bad http format", PublisherConfig{ID: "h2", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://x", Format: "xml"}}},
		{"bad stream", PublisherConfig{ID: "s", Type: TypeStdout, Stdout: &StdoutPublisherConfig{Stream: "printer"}}},
		{"sqs no region", PublisherConfig{ID: "q", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}}},
		{"sns no arn", PublisherConfig{ID: "n", Type: TypeSNS, SNS: &SNSPublisherConfig{AWSSettings: AWSSettings{Region: "r"}}}},
		{"half credentials", PublisherConfig{ID: "n", Type: TypeSNS, SNS: &SNSPublisherConfig{
			TopicARN:    "arn",
			AWSSettings: AWSSettings{Region: "r", AccessKeyID: "AKIA"},
		}}},
		{"pubsub no topic", PublisherConfig{ID: "g", Type: TypeGCPPubSub, GCPPubSub: &GCPPubSubPublisherConfig{ProjectID: "p"}}},
	}
	for _, c := range cases {
		if err := validatePublisherConfig(c.cfg); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestSanitizeHeadersDropsBlank(t *testing.T) {
	got := sanitizeHeaders(map[string]string{" X-A ": " 1 ", "": "v", "X-B": " "})
	if len(got) != 1 || got["X-A"] != "1" {
		t.Fatalf("sanitizeHeaders = %#v", got)
	}
	if sanitizeHeaders(map[string]string{"": ""}) != nil {
		t.Fatalf("expected nil when nothing survives")
	}
}
