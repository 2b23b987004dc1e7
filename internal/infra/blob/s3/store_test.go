package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"ordercore/internal/blob/core"
)

func TestMockPutGetHead(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()

	if store.Driver() != core.DriverS3 {
		t.Fatalf("unexpected driver")
	}

	payload := []byte("<Envelope><OrderId>FU70001236</OrderId></Envelope>")
	info, err := store.Put(ctx, "corrected/FU70001236/run-1.xml", bytes.NewReader(payload), core.PutOptions{ContentType: "application/xml"})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Size != int64(len(payload)) {
		t.Fatalf("unexpected size: %+v", info)
	}

	if _, err := store.Put(ctx, "corrected/FU70001236/run-1.xml", bytes.NewReader(payload), core.PutOptions{}); err == nil {
		t.Fatalf("existing key must be rejected")
	}

	got, rc, err := store.Get(ctx, "corrected/FU70001236/run-1.xml")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(data, payload) || got.ContentType != "application/xml" {
		t.Fatalf("round trip mismatch: %q %+v", data, got)
	}

	if _, err := store.Head(ctx, "absent-key"); err == nil {
		t.Fatalf("Head on absent key must fail")
	}
}

func TestMockListAndDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()

	for _, key := range []string{"corrected/a.xml", "corrected/b.xml", "bundles/batch.zip"} {
		if _, err := store.Put(ctx, key, strings.NewReader(key), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}

	infos, err := store.List(ctx, "corrected/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "corrected/a.xml" || infos[1].Key != "corrected/b.xml" {
		t.Fatalf("unexpected listing: %+v", infos)
	}

	ok, err := store.Delete(ctx, "corrected/a.xml")
	if err != nil || !ok {
		t.Fatalf("Delete: %v %v", ok, err)
	}
	if _, err := store.Head(ctx, "corrected/a.xml"); err == nil {
		t.Fatalf("Head after delete must fail")
	}
}

func TestMockPresignURL(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()
	url, err := store.PresignURL(ctx, "corrected/a.xml", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.Contains(url, "corrected/a.xml") {
		t.Fatalf("unexpected url: %q", url)
	}
	if _, err := store.PresignURL(ctx, "corrected/a.xml", core.SignedURLOptions{Method: "PUT"}); err != core.ErrUnsupported {
		t.Fatalf("PUT presign must be unsupported, got %v", err)
	}
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("missing bucket must fail")
	}
}
