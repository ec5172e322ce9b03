package core

import "testing"

func TestGetEnvOrDefault(t *testing.T) {
	const key = "HASHART_TEST_STRING"

	t.Setenv(key, "value")
	if got := GetEnvOrDefault(key, "default"); got != "value" {
		t.Errorf("GetEnvOrDefault() = %q, want value", got)
	}

	t.Setenv(key, "   ")
	if got := GetEnvOrDefault(key, "default"); got != "default" {
		t.Errorf("GetEnvOrDefault() blank = %q, want default", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	const key = "HASHART_TEST_INT"

	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 7, false},
		{"42", 42, false},
		{" -3 ", -3, false},
		{"4.5", 7, true},
		{"abc", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(key, tt.value)

			if got := ParseIntEnv(key, 7); got != tt.want {
				t.Errorf("ParseIntEnv() = %d, want %d", got, tt.want)
			}
			got, err := ParseIntEnvStrict(key, 7)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIntEnvStrict() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseIntEnvStrict() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseBoolEnv(t *testing.T) {
	const key = "HASHART_TEST_BOOL"

	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"1", false, true},
		{"false", true, false},
		{"Off", true, false},
		{"0", true, false},
		{"no", true, false},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(key, tt.value)
			if got := ParseBoolEnv(key, tt.defaultValue); got != tt.want {
				t.Errorf("ParseBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
