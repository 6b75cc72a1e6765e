package currency_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/currency"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTableConverter(t *testing.T) {
	Convey("Given the default rate table", t, func() {
		conv := currency.NewTableConverter()
		ctx := context.Background()
		now := time.Now()

		Convey("USD converts at parity", func() {
			usd, rate, err := conv.Convert(ctx, 1000, "USD", now)
			So(err, ShouldBeNil)
			So(rate, ShouldEqual, 1.0)
			So(usd, ShouldEqual, 1000)
		})

		Convey("Known currencies convert by their rate", func() {
			usd, rate, err := conv.Convert(ctx, 100, "EUR", now)
			So(err, ShouldBeNil)
			So(rate, ShouldEqual, 1.08)
			So(usd, ShouldAlmostEqual, 108, 1e-9)
		})

		Convey("Codes are case-insensitive", func() {
			_, _, err := conv.Convert(ctx, 1, "gbp", now)
			So(err, ShouldBeNil)
			So(conv.Supported(" eur "), ShouldBeTrue)
		})

		Convey("Unknown currencies fail with ErrUnconvertible", func() {
			_, _, err := conv.Convert(ctx, 1, "XXX", now)
			So(errors.Is(err, currency.ErrUnconvertible), ShouldBeTrue)
			So(conv.Supported("XXX"), ShouldBeFalse)
		})
	})

	Convey("Given a rate override", t, func() {
		conv := currency.NewTableConverter(currency.WithRate("MMK", 0.00048))

		Convey("The added currency converts", func() {
			usd, _, err := conv.Convert(context.Background(), 1000000, "MMK", time.Now())
			So(err, ShouldBeNil)
			So(usd, ShouldAlmostEqual, 480, 1e-9)
		})
	})
}
