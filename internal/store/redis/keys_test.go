package redis

import "testing"

func TestExtractKey(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		key     string
		want    string
		wantErr bool
	}{
		{name: "namespaced key", key: "fellowship:content:books:kjv", want: "books:kjv"},
		{name: "escaped parameter", key: "fellowship:content:chapter:kjv%3AGEN.1", want: "chapter:kjv%3AGEN.1"},
		{name: "prefix only", key: "fellowship:content:", wantErr: true},
		{name: "foreign key", key: "other:books:kjv", wantErr: true},
		{name: "sibling namespace", key: "fellowship:contents:books", wantErr: true},
		{name: "prefix in the middle", key: "x:fellowship:content:books", wantErr: true},
		{name: "shorter than prefix", key: "fel", wantErr: true},
		{name: "custom prefix", prefix: "app:", key: "app:bibles", want: "bibles"},
		{name: "custom prefix without separator", prefix: "app:", key: "app", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefix := tt.prefix
			if prefix == "" {
				prefix = DefaultKeyPrefix
			}
			got, err := ExtractKey(prefix, tt.key)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ExtractKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamespacedKeyRoundTrip(t *testing.T) {
	physical := NamespacedKey(DefaultKeyPrefix, "chapter:kjv:GEN.1")
	if physical != "fellowship:content:chapter:kjv:GEN.1" {
		t.Fatalf("NamespacedKey() = %q", physical)
	}
	logical, err := ExtractKey(DefaultKeyPrefix, physical)
	if err != nil || logical != "chapter:kjv:GEN.1" {
		t.Errorf("ExtractKey() = %q, %v", logical, err)
	}
}

func TestNewStoreDefaultsPrefix(t *testing.T) {
	if s := NewStore(nil, ""); s.prefix != DefaultKeyPrefix {
		t.Errorf("prefix = %q, want %q", s.prefix, DefaultKeyPrefix)
	}
}
