package errors

import "testing"

func TestValidateNodeKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{"title", false},
		{"feed.row-1", false},
		{"_hidden", false},
		{"", true},
		{"parent", true},
		{"root", true},
		{"1abc", true},
		{"has space", true},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateNodeKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidDocument) {
				t.Errorf("ValidateNodeKey(%q) code = %v, want %v", tt.key, GetCode(err), ErrCodeInvalidDocument)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"relative", "panels/home.toml", false},
		{"absolute", "/tmp/home.toml", false},
		{"empty", "", true},
		{"null byte", "a\x00b", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidatePath(tt.path); (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateExtension(t *testing.T) {
	if err := ValidateExtension("scene.TOML", ".toml"); err != nil {
		t.Errorf("ValidateExtension() error = %v", err)
	}
	err := ValidateExtension("scene.yaml", ".toml")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateExtension() = %v, want %v", err, ErrCodeInvalidFormat)
	}
}
