package parsing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseDate", func() {
	newYear := Date{Year: 2022, Month: time.January, Day: 1}

	DescribeTable("supported formats",
		func(input string, expected Date) {
			d, ok := ParseDate(input)
			Expect(ok).To(BeTrue())
			Expect(d).To(Equal(expected))
		},
		Entry("ISO", "2022-01-01", newYear),
		Entry("ISO without padding", "2022-1-1", newYear),
		Entry("month/day/year", "01/01/2022", newYear),
		Entry("day/month/year", "13/01/2022", Date{Year: 2022, Month: time.January, Day: 13}),
		Entry("month-day-year", "01-01-2022", newYear),
		Entry("day-month-year", "13-01-2022", Date{Year: 2022, Month: time.January, Day: 13}),
		Entry("full month with comma", "January 1, 2022", newYear),
		Entry("short month with comma", "Jan 1, 2022", newYear),
		Entry("full month without comma", "January 1 2022", newYear),
		Entry("short month without comma", "Jan 1 2022", newYear),
		Entry("lower case month", "jan 1, 2022", newYear),
	)

	It("reads ambiguous slashed dates month first", func() {
		d, ok := ParseDate("01/02/2024")
		Expect(ok).To(BeTrue())
		Expect(d).To(Equal(Date{Year: 2024, Month: time.January, Day: 2}))
	})

	DescribeTable("unparseable input",
		func(input string) {
			_, ok := ParseDate(input)
			Expect(ok).To(BeFalse())
		},
		Entry("garbage", "not-a-date"),
		Entry("empty", ""),
		Entry("impossible day", "2022-02-30"),
		Entry("two digit year", "01/01/22"),
		Entry("trailing text", "2022-01-01T00:00"),
	)

	It("formats as ISO", func() {
		Expect(Date{Year: 2022, Month: time.March, Day: 5}.String()).To(Equal("2022-03-05"))
	})
})

var _ = Describe("ParseTime", func() {
	oneOhOne := NewTimeOfDay(13, 1, 0, 0)

	DescribeTable("supported formats",
		func(input string, expected TimeOfDay) {
			t, ok := ParseTime(input)
			Expect(ok).To(BeTrue())
			Expect(t).To(Equal(expected))
		},
		Entry("hours and minutes", "13:01", oneOhOne),
		Entry("with seconds", "13:01:00", oneOhOne),
		Entry("with fractional seconds", "14:30:15.123", NewTimeOfDay(14, 30, 15, 123000)),
		Entry("six fraction digits", "13:01:00.123456", NewTimeOfDay(13, 1, 0, 123456)),
		Entry("no separator", "1301", oneOhOne),
		Entry("midnight", "00:00", NewTimeOfDay(0, 0, 0, 0)),
	)

	DescribeTable("unparseable input",
		func(input string) {
			_, ok := ParseTime(input)
			Expect(ok).To(BeFalse())
		},
		Entry("out of range", "25:99"),
		Entry("garbage", "noon"),
		Entry("twelve hour clock", "1:01 PM"),
		Entry("empty", ""),
		Entry("more than six fraction digits", "13:01:00.1234567"),
		Entry("comma before fraction", "13:01:00,5"),
		Entry("three digit compact time", "930"),
	)

	Describe("String", func() {
		It("omits a zero fraction", func() {
			Expect(oneOhOne.String()).To(Equal("13:01:00"))
		})

		It("prints six fraction digits otherwise", func() {
			Expect(NewTimeOfDay(8, 13, 45, 250000).String()).To(Equal("08:13:45.250000"))
		})
	})

	It("orders times strictly", func() {
		two := NewTimeOfDay(14, 0, 0, 0)
		Expect(NewTimeOfDay(14, 0, 0, 1).After(two)).To(BeTrue())
		Expect(two.After(two)).To(BeFalse())
		Expect(two.Before(two)).To(BeFalse())
	})
})
