package cmd

import "testing"

func TestConfigFileArg(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no flag", []string{"serve", "--verbose"}, ""},
		{"separate value", []string{"serve", "--config", "/tmp/custom.toml"}, "/tmp/custom.toml"},
		{"equals form", []string{"--config=/tmp/custom.toml", "serve"}, "/tmp/custom.toml"},
		{"flag without value", []string{"serve", "--config"}, ""},
		{"empty args", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := configFileArg(tt.args); got != tt.want {
				t.Errorf("configFileArg(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}
