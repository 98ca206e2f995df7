package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/staffboard/internal/config"
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
				convey.So(cfg.APITimeoutMS, convey.ShouldEqual, 30_000)
				convey.So(cfg.KeepUnusedDataForSec, convey.ShouldEqual, 300)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("STAFFBOARD_ADDR", ":8080")
			_ = os.Setenv("STAFFBOARD_API_BASE_URL", "https://hr.example.com/api")
			_ = os.Setenv("STAFFBOARD_API_TIMEOUT_MS", "5000")
			_ = os.Setenv("STAFFBOARD_KEEP_UNUSED_DATA_FOR_SEC", "60")
			_ = os.Setenv("STAFFBOARD_REFETCH_WORKER_COUNT", "3")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://hr.example.com/api")
				convey.So(cfg.APITimeoutMS, convey.ShouldEqual, 5000)
				convey.So(cfg.KeepUnusedDataForSec, convey.ShouldEqual, 60)
				convey.So(cfg.RefetchWorkerCount, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# staffboard
addr: ":9090"
api_base_url: "http://api.internal:4000"
refetch_queue_size: 64
default_skill_limit: 5
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("STAFFBOARD_CONFIG", tmpFile)
			_ = os.Setenv("STAFFBOARD_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")                         // env
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "http://api.internal:4000") // file
				convey.So(cfg.RefetchQueueSize, convey.ShouldEqual, 64)                   // file
				convey.So(cfg.DefaultSkillLimit, convey.ShouldEqual, 5)                   // file
				convey.So(cfg.MaxSkillLimit, convey.ShouldEqual, 50)                      // default
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("STAFFBOARD_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("STAFFBOARD_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("STAFFBOARD_API_TIMEOUT_MS", "soon")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()

		cases := []struct {
			name, key, value, message string
		}{
			{"empty addr", "STAFFBOARD_ADDR", "", "addr must not be empty"},
			{"empty base url", "STAFFBOARD_API_BASE_URL", "", "api_base_url must not be empty"},
			{"relative base url", "STAFFBOARD_API_BASE_URL", "/api", "absolute http(s) url"},
			{"negative timeout", "STAFFBOARD_API_TIMEOUT_MS", "-1", "api_timeout_ms"},
			{"negative grace", "STAFFBOARD_KEEP_UNUSED_DATA_FOR_SEC", "-5", "keep_unused_data_for_sec"},
			{"default over limit", "STAFFBOARD_DEFAULT_SKILL_LIMIT", "500", "default_skill_limit"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.value)
				defer clearConfigEnvVars()

				cfg, err := config.Load(ctx)

				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, tc.message)
			})
		}
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"STAFFBOARD_CONFIG",
		"STAFFBOARD_ADDR",
		"STAFFBOARD_API_BASE_URL",
		"STAFFBOARD_API_TIMEOUT_MS",
		"STAFFBOARD_KEEP_UNUSED_DATA_FOR_SEC",
		"STAFFBOARD_REFETCH_WORKER_COUNT",
		"STAFFBOARD_DEFAULT_SKILL_LIMIT",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "staffboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
