package ctxutil

import (
	"context"
	"testing"
)

func TestTraceDataRoundTrip(t *testing.T) {
	ctx := WithTraceData(context.Background(), &TraceData{TraceID: "t1", RequestID: "r1"})
	td := GetTraceData(ctx)
	if td == nil || td.TraceID != "t1" || td.RequestID != "r1" {
		t.Fatalf("unexpected trace data: %+v", td)
	}
	if GetTraceData(context.Background()) != nil {
		t.Fatalf("expected nil trace data on empty context")
	}
	if GetClientData(ctx) != nil {
		t.Fatalf("trace data must not read back as client data")
	}
}

func TestClientDataRoundTrip(t *testing.T) {
	ctx := WithClientData(nil, &ClientData{ClientID: "c1", Generated: true})
	cd := GetClientData(ctx)
	if cd == nil || cd.ClientID != "c1" || !cd.Generated {
		t.Fatalf("unexpected client data: %+v", cd)
	}
	if GetClientData(nil) != nil {
		t.Fatalf("nil context should carry no client data")
	}
	if Default(nil) == nil {
		t.Fatalf("Default(nil) returned nil")
	}
}
