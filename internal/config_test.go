package internal_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-dashboard/internal"
)

func validConfig() *internal.Config {
	cfg := &internal.Config{
		Database: internal.DatabaseConfig{Driver: "sqlite", Source: "file::memory:"},
		Security: internal.SecurityConfig{
			JWTAccessSecret:  "access-secret-0123456789abcdefghijkl",
			JWTRefreshSecret: "refresh-secret-0123456789abcdefghijk",
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

var _ = Describe("Config", func() {
	It("fills the defaults the service runs with", func() {
		cfg := validConfig()
		Expect(cfg.Validate()).To(Succeed())

		Expect(cfg.Server.Port).To(Equal(8080))
		Expect(cfg.Dashboard.DefaultForecastDays).To(Equal(30))
		Expect(cfg.Dashboard.MinForecastDays).To(Equal(7))
		Expect(cfg.Dashboard.MaxForecastDays).To(Equal(90))
		Expect(cfg.Security.BCryptCost).To(Equal(12))
		Expect(cfg.Recurring.MaxOccurrences).To(Equal(internal.DefaultMaxOccurrences))
		Expect(cfg.Logging.Level).To(Equal("info"))
	})

	DescribeTable("rejects",
		func(mutate func(*internal.Config)) {
			cfg := validConfig()
			mutate(cfg)
			Expect(cfg.Validate()).NotTo(Succeed())
		},
		Entry("a short secret", func(c *internal.Config) { c.Security.JWTAccessSecret = "short" }),
		Entry("a shared secret", func(c *internal.Config) { c.Security.JWTRefreshSecret = c.Security.JWTAccessSecret }),
		Entry("an unknown driver", func(c *internal.Config) { c.Database.Driver = "mysql" }),
		Entry("a missing source", func(c *internal.Config) { c.Database.Source = "" }),
		Entry("an inverted forecast range", func(c *internal.Config) { c.Dashboard.MinForecastDays = 120 }),
		Entry("a negative window", func(c *internal.Config) { c.Dashboard.RollingWindow = -1 }),
	)

	It("clamps the forecast horizon", func() {
		d := validConfig().Dashboard
		Expect(d.ClampForecastDays(0)).To(Equal(30))
		Expect(d.ClampForecastDays(1)).To(Equal(7))
		Expect(d.ClampForecastDays(45)).To(Equal(45))
		Expect(d.ClampForecastDays(3650)).To(Equal(90))
	})
})
