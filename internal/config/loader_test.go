package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/sgva/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.APIBase, convey.ShouldEqual, "http://127.0.0.1:8000/api")
				convey.So(cfg.ToastTTLMS, convey.ShouldEqual, 3000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SGVA_ADDR", ":8080")
			_ = os.Setenv("SGVA_API_BASE", "https://sgva.example.org/api")
			_ = os.Setenv("SGVA_TOAST_TTL_MS", "1500")
			_ = os.Setenv("SGVA_REQUEST_TIMEOUT_MS", "2000")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.APIBase, convey.ShouldEqual, "https://sgva.example.org/api")
				convey.So(cfg.ToastTTLMS, convey.ShouldEqual, 1500)
				convey.So(cfg.RequestTimeoutMS, convey.ShouldEqual, 2000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
api_base: "https://file.example.org/api"
session_file: "/tmp/file-session.json"
recent_limit: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SGVA_CONFIG", tmpFile)
			_ = os.Setenv("SGVA_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                           // env
				convey.So(cfg.APIBase, convey.ShouldEqual, "https://file.example.org/api") // file
				convey.So(cfg.SessionFile, convey.ShouldEqual, "/tmp/file-session.json")   // file
				convey.So(cfg.RecentLimit, convey.ShouldEqual, 5)                          // file
				convey.So(cfg.ToastCapacity, convey.ShouldEqual, 5)                        // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SGVA_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SGVA_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SGVA_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SGVA_TOAST_TTL_MS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"SGVA_CONFIG", "SGVA_ADDR", "SGVA_API_BASE", "SGVA_OAUTH_BASE", "SGVA_PUBLIC_ORIGIN",
		"SGVA_SESSION_FILE", "SGVA_SESSION_KEY", "SGVA_TOAST_TTL_MS", "SGVA_TOAST_CAPACITY",
		"SGVA_RECENT_LIMIT", "SGVA_REQUEST_TIMEOUT_MS", "SGVA_LOG_LEVEL", "SGVA_LOG_FORMAT",
	} {
		_ = os.Unsetenv(name)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "sgva-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
