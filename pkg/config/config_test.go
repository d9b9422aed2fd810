package config

import (
	"testing"

	pkgerrors "msngraph/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"complete", Config{InputDir: "/logs", MainUser: "m@x.com"}, false},
		{"missing input dir", Config{MainUser: "m@x.com"}, true},
		{"missing main user", Config{InputDir: "/logs"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !pkgerrors.IsErrorType(err, pkgerrors.ErrorTypeConfig) {
				t.Errorf("Validate() error = %v, want a config error", err)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("MSNGRAPH_TEST_BOOL", "yes")
	if !getEnvBool("MSNGRAPH_TEST_BOOL", false) {
		t.Error(`"yes" should read as true`)
	}
	t.Setenv("MSNGRAPH_TEST_BOOL", "0")
	if getEnvBool("MSNGRAPH_TEST_BOOL", true) {
		t.Error(`"0" should read as false`)
	}
	if !getEnvBool("MSNGRAPH_TEST_UNSET", true) {
		t.Error("unset should fall back to the default")
	}
}
