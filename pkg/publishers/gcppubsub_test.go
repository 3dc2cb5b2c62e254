package publishers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestGCPPubSubPublisherPublishes(t *testing.T) {
	server := pstest.NewServer()
	defer server.Close()

	ctx := context.Background()
	admin, err := pubsub.NewClient(ctx, "test-project",
		option.WithEndpoint(server.Addr),
		option.WithoutAuthentication(),
		option.WithGRPCDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())),
	)
	if err != nil {
		t.Fatalf("create admin client: %v", err)
	}
	defer admin.Close()
	if _, err := admin.CreateTopic(ctx, "bulletins"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	pub, err := newGCPPubSubPublisher(ctx, PublisherConfig{
		ID:   "ps",
		Type: TypeGCPPubSub,
		GCPPubSub: &GCPPubSubPublisherConfig{
			ProjectID: "test-project",
			Topic:     "bulletins",
			Endpoint:  server.Addr,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newGCPPubSubPublisher: %v", err)
	}

	evt := sampleEvent()
	if err := pub.Publish(ctx, evt); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := pub.(*gcpPubSubPublisher).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Attributes["provider_id"] != "provider-1" {
		t.Fatalf("attributes = %#v", msgs[0].Attributes)
	}
	var got map[string]any
	if err := json.Unmarshal(msgs[0].Data, &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got["summary"] != evt.Summary {
		t.Fatalf("summary = %v", got["summary"])
	}
}

func TestPubSubClientOptions(t *testing.T) {
	if opts := pubsubClientOptions(&GCPPubSubPublisherConfig{}); opts != nil {
		t.Fatalf("expected default credentials when nothing set")
	}
	if opts := pubsubClientOptions(&GCPPubSubPublisherConfig{Endpoint: "localhost:8085"}); len(opts) != 3 {
		t.Fatalf("expected emulator options, got %d", len(opts))
	}
	if opts := pubsubClientOptions(&GCPPubSubPublisherConfig{CredentialsFile: "/tmp/sa.json"}); len(opts) != 1 {
		t.Fatalf("expected credentials file option, got %d", len(opts))
	}
}
