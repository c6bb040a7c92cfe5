package formats

import (
	"testing"

	"docmill/internal/domain/models"
)

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}
	if len(registry.Targets()) == 0 {
		t.Fatal("registry has no targets")
	}
}

func TestRegistry_KindFor(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	tests := []struct {
		ext  string
		want models.SourceKind
	}{
		{"pdf", models.KindPDF},
		{".pdf", models.KindPDF},
		{"PDF", models.KindPDF},
		{"docx", models.KindDocx},
		{"txt", models.KindText},
		{"png", models.KindImage},
		{"jpg", models.KindImage},
		{"jpeg", models.KindImage},
		{"bmp", models.KindImage},
		{"tif", models.KindImage},
		{"tiff", models.KindImage},
		{"exe", models.KindUnsupported},
		{"", models.KindUnsupported},
	}

	for _, tt := range tests {
		if got := registry.KindFor(tt.ext); got != tt.want {
			t.Errorf("KindFor(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestRegistry_Allowed(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	for _, ext := range []string{".pdf", ".docx", ".txt", ".png", ".jpeg"} {
		if !registry.Allowed(ext) {
			t.Errorf("Allowed(%q) = false, want true", ext)
		}
	}
	for _, ext := range []string{".exe", ".zip", ".html", ""} {
		if registry.Allowed(ext) {
			t.Errorf("Allowed(%q) = true, want false", ext)
		}
	}
}

func TestRegistry_ParseTarget(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	tests := []struct {
		input   string
		want    models.TargetFormat
		wantErr bool
	}{
		{"txt", models.TargetTxt, false},
		{"TXT", models.TargetTxt, false},
		{"docx", models.TargetDocx, false},
		{"  DocX  ", models.TargetDocx, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := registry.ParseTarget(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTarget(%q) expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTarget(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTarget(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
