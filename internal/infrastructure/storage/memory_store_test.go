package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"client_portal/internal/usecase/interfaces"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	data := []byte("%PDF-1.4 sample")

	url, err := s.Put(context.Background(), "quotes/p1/Q-000001.pdf", data)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "mem://quotes/p1/Q-000001.pdf" {
		t.Fatalf("unexpected url %s", url)
	}
	data[0] = 'X'

	got, err := s.Get(context.Background(), url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("%PDF-1.4 sample")) {
		t.Fatalf("stored bytes changed: %q", got)
	}
}

func TestMemoryStore_WriteOnce(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	url, _ := s.Put(ctx, "a.pdf", []byte("first"))
	if _, err := s.Put(ctx, "a.pdf", []byte("second")); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, _ := s.Get(ctx, url)
	if string(got) != "first" {
		t.Fatalf("expected first write to win, got %q", got)
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", s.Len())
	}
}

func TestMemoryStore_GetErrors(t *testing.T) {
	s := NewMemoryStore()
	tests := []struct {
		name string
		url  string
	}{
		{"unknown object", "mem://missing.pdf"},
		{"foreign url", "https://example.com/a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Get(context.Background(), tt.url)
			if !errors.Is(err, interfaces.ErrDocumentNotFound) {
				t.Fatalf("expected ErrDocumentNotFound, got %v", err)
			}
		})
	}
}

func TestMemoryStore_EmptyPath(t *testing.T) {
	if _, err := NewMemoryStore().Put(context.Background(), "/", []byte("x")); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestGCSStore_ObjectName(t *testing.T) {
	s := &GCSStore{bucketName: "docs", publicBase: "https://storage.googleapis.com/docs/"}
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"public url", "https://storage.googleapis.com/docs/quotes/p1/Q-000001.pdf", "quotes/p1/Q-000001.pdf", false},
		{"gs url", "gs://docs/quotes/p1/Q-000001.pdf", "quotes/p1/Q-000001.pdf", false},
		{"other bucket", "gs://other/quotes/a.pdf", "", true},
		{"bucket root", "https://storage.googleapis.com/docs/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.objectName(tt.url)
			if tt.wantErr {
				if !errors.Is(err, interfaces.ErrDocumentNotFound) {
					t.Fatalf("expected ErrDocumentNotFound, got %v", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("objectName(%q) = %q, %v; want %q", tt.url, got, err, tt.want)
			}
		})
	}
}
