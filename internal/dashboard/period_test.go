package dashboard_test

import (
	"net/url"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-dashboard/internal/core/schedule"
	"github.com/frahmantamala/finance-dashboard/internal/dashboard"
)

var _ = Describe("Period presets", func() {
	// a Wednesday
	today := time.Date(2024, 5, 22, 18, 45, 0, 0, time.UTC)

	DescribeTable("resolves against today",
		func(preset dashboard.Preset, from time.Time) {
			gotFrom, gotTo := preset.Range(today)
			Expect(*gotFrom).To(Equal(from))
			Expect(*gotTo).To(Equal(schedule.Day(2024, 5, 22)))
		},
		Entry("week to date", dashboard.WeekToDate, schedule.Day(2024, 5, 20)),
		Entry("month to date", dashboard.MonthToDate, schedule.Day(2024, 5, 1)),
		Entry("year to date", dashboard.YearToDate, schedule.Day(2024, 1, 1)),
		Entry("last 7 days", dashboard.Last7, schedule.Day(2024, 5, 16)),
		Entry("last 30 days", dashboard.Last30, schedule.Day(2024, 4, 23)),
		Entry("last 365 days", dashboard.Last365, schedule.Day(2023, 5, 24)),
	)

	It("starts the week on Monday even on Sunday", func() {
		from, _ := dashboard.WeekToDate.Range(schedule.Day(2024, 5, 26))
		Expect(*from).To(Equal(schedule.Day(2024, 5, 20)))
	})

	It("leaves all time unbounded", func() {
		from, to := dashboard.AllTime.Range(today)
		Expect(from).To(BeNil())
		Expect(to).To(BeNil())
	})

	Describe("ParseQuery", func() {
		It("applies the preset when no explicit range is given", func() {
			f, err := dashboard.ParseQuery(url.Values{"period": {"MTD"}, "recurring": {"false"}}, 7, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.UserID).To(Equal(int64(7)))
			Expect(*f.From).To(Equal(schedule.Day(2024, 5, 1)))
			Expect(*f.Recurring).To(BeFalse())
		})

		It("lets explicit dates win", func() {
			f, err := dashboard.ParseQuery(url.Values{"period": {"ytd"}, "from": {"2024-05-10"}}, 7, today)
			Expect(err).NotTo(HaveOccurred())
			Expect(*f.From).To(Equal(schedule.Day(2024, 5, 10)))
			Expect(f.To).To(BeNil())
		})

		It("rejects unknown presets", func() {
			_, err := dashboard.ParseQuery(url.Values{"period": {"fortnight"}}, 7, today)
			Expect(err).To(HaveOccurred())
		})
	})
})
