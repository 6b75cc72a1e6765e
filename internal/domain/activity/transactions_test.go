package activity_test

import (
	"testing"
	"time"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	. "github.com/smartystreets/goconvey/convey"
)

func TestExtractTransactions(t *testing.T) {
	Convey("Given an activity with two transactions", t, func() {
		raw := `<iati-activity>
			<iati-identifier>AID-1</iati-identifier>
			<reporting-org ref="XM-DAC-41114"/>
			<transaction ref="t-100">
				<transaction-type code="3"/>
				<transaction-date iso-date="2024-03-01"/>
				<value currency="eur" value-date="2024-03-01">1000.50</value>
				<sector code="11220" percentage="60"><narrative>Primary education</narrative></sector>
				<sector code="12240" percentage="40"/>
			</transaction>
			<transaction>
				<transaction-type code="2"/>
				<value currency="USD">500</value>
				<sector code="11220"/>
			</transaction>
		</iati-activity>`

		Convey("Both are extracted in document order", func() {
			txs, err := activity.ExtractTransactions(raw)
			So(err, ShouldBeNil)
			So(txs, ShouldHaveLength, 2)

			first := txs[0]
			So(first.ID, ShouldEqual, "t-100")
			So(first.Type, ShouldEqual, "3")
			So(first.ValueAmount, ShouldEqual, 1000.50)
			So(first.Currency, ShouldEqual, "EUR")
			So(first.Date.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
			So(first.SectorLines, ShouldHaveLength, 2)
			So(first.SectorLines[0].Code, ShouldEqual, "11220")
			So(first.SectorLines[0].Name, ShouldEqual, "Primary education")
			So(first.SectorLines[0].Percentage, ShouldEqual, 60)

			second := txs[1]
			So(second.ID, ShouldEqual, "tx-2")
			So(second.Type, ShouldEqual, "2")
			So(second.Date.IsZero(), ShouldBeTrue)

			Convey("And a sole sector without a split carries everything", func() {
				So(second.SectorLines, ShouldHaveLength, 1)
				So(second.SectorLines[0].Percentage, ShouldEqual, 100)
			})
		})
	})

	Convey("Given tolerated imperfections", t, func() {
		raw := `<iati-activity>
			<transaction>
				<value currency="USD">not-a-number</value>
				<sector code="11220" percentage="sixty"/>
				<sector percentage="40"/>
			</transaction>
		</iati-activity>`

		Convey("Bad values are zeroed and codeless sectors skipped", func() {
			txs, err := activity.ExtractTransactions(raw)
			So(err, ShouldBeNil)
			So(txs, ShouldHaveLength, 1)
			So(txs[0].ValueAmount, ShouldEqual, 0)
			So(txs[0].SectorLines, ShouldHaveLength, 1)
			So(txs[0].SectorLines[0].Percentage, ShouldEqual, 0)
		})
	})

	Convey("Given an activity with no transactions", t, func() {
		txs, err := activity.ExtractTransactions(`<iati-activity><iati-identifier>AID-1</iati-identifier></iati-activity>`)
		So(err, ShouldBeNil)
		So(txs, ShouldBeEmpty)
	})

	Convey("Given a document without an activity element", t, func() {
		_, err := activity.ExtractTransactions(`<something-else/>`)
		kind, ok := activity.KindOf(err)
		So(ok, ShouldBeTrue)
		So(kind, ShouldEqual, activity.KindNoActivityElement)
	})

	Convey("Given malformed markup", t, func() {
		_, err := activity.ExtractTransactions(`<iati-activity><transaction></iati-activity>`)
		So(err, ShouldNotBeNil)
		kind, _ := activity.KindOf(err)
		So(kind, ShouldEqual, activity.KindMalformedInput)
	})
}
