package activity_test

import (
	"strings"
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/activity"
	. "github.com/smartystreets/goconvey/convey"
)

const wellFormed = `<?xml version="1.0"?>
<iati-activity last-updated-datetime="2024-03-01T10:00:00Z">
  <iati-identifier>XM-DAC-41114-PROJECT-1</iati-identifier>
  <reporting-org ref="XM-DAC-41114" type="40">
    <narrative xml:lang="fr">Programme de developpement</narrative>
    <narrative xml:lang="en">Development Programme</narrative>
  </reporting-org>
</iati-activity>`

func TestExtractMeta(t *testing.T) {
	Convey("Given a well-formed activity report", t, func() {
		Convey("All metadata fields are extracted", func() {
			meta, err := activity.ExtractMeta(wellFormed)
			So(err, ShouldBeNil)
			So(meta.IATIIdentifier, ShouldEqual, "XM-DAC-41114-PROJECT-1")
			So(meta.ReportingOrgRef, ShouldEqual, "XM-DAC-41114")
			So(meta.ReportingOrgName, ShouldEqual, "Development Programme")
			So(meta.LastUpdated, ShouldEqual, "2024-03-01T10:00:00Z")
		})

		Convey("The preferred language option steers the org name", func() {
			meta, err := activity.ExtractMeta(wellFormed, activity.WithPreferredLang("fr"))
			So(err, ShouldBeNil)
			So(meta.ReportingOrgName, ShouldEqual, "Programme de developpement")
		})
	})

	Convey("Given an activities collection", t, func() {
		doc := `<iati-activities version="2.03">
  <iati-activity>
    <iati-identifier>FIRST-1</iati-identifier>
    <reporting-org ref="ORG-A"><narrative>Org A</narrative></reporting-org>
  </iati-activity>
  <iati-activity>
    <iati-identifier>SECOND-2</iati-identifier>
    <reporting-org ref="ORG-B"><narrative>Org B</narrative></reporting-org>
  </iati-activity>
</iati-activities>`

		Convey("The first activity is extracted", func() {
			meta, err := activity.ExtractMeta(doc)
			So(err, ShouldBeNil)
			So(meta.IATIIdentifier, ShouldEqual, "FIRST-1")
			So(meta.ReportingOrgRef, ShouldEqual, "ORG-A")
		})

		Convey("CountActivities reports the full cardinality", func() {
			n, err := activity.CountActivities(doc)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})

	Convey("Given oversized input", t, func() {
		big := "<iati-activity>" + strings.Repeat("x", 100) + "</iati-activity>"

		Convey("Extraction fails before parsing", func() {
			_, err := activity.ExtractMeta(big, activity.WithMaxBytes(50))
			kind, ok := activity.KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, activity.KindFileTooLarge)
		})
	})

	Convey("Given malformed markup", t, func() {
		Convey("Extraction fails with the malformed-input kind", func() {
			_, err := activity.ExtractMeta(`<iati-activity><iati-identifier>X`)
			kind, ok := activity.KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, activity.KindMalformedInput)
		})
	})

	Convey("Given a document without an activity element", t, func() {
		cases := []string{
			`<?xml version="1.0"?>`,
			`<something-else><child/></something-else>`,
			`<iati-activities version="2.03"></iati-activities>`,
		}
		Convey("Extraction fails with the no-activity kind", func() {
			for _, doc := range cases {
				_, err := activity.ExtractMeta(doc)
				kind, ok := activity.KindOf(err)
				So(ok, ShouldBeTrue)
				So(kind, ShouldEqual, activity.KindNoActivityElement)
			}
		})
	})

	Convey("Given an activity without an identifier", t, func() {
		docs := []string{
			`<iati-activity><reporting-org ref="R"/></iati-activity>`,
			`<iati-activity><iati-identifier>   </iati-identifier><reporting-org ref="R"/></iati-activity>`,
		}
		Convey("Extraction fails with the missing-identifier kind", func() {
			for _, doc := range docs {
				_, err := activity.ExtractMeta(doc)
				kind, ok := activity.KindOf(err)
				So(ok, ShouldBeTrue)
				So(kind, ShouldEqual, activity.KindMissingIdentifier)
			}
		})
	})

	Convey("Given an activity without a reporting org", t, func() {
		doc := `<iati-activity><iati-identifier>X-1</iati-identifier></iati-activity>`

		Convey("Extraction fails with the missing-reporting-org kind", func() {
			_, err := activity.ExtractMeta(doc)
			kind, ok := activity.KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, activity.KindMissingReportingOrg)
		})
	})

	Convey("Given a reporting org without a ref", t, func() {
		doc := `<iati-activity>
  <iati-identifier>X-1</iati-identifier>
  <reporting-org><narrative>No ref here</narrative></reporting-org>
</iati-activity>`

		Convey("Extraction fails with the missing-ref kind and names the field", func() {
			_, err := activity.ExtractMeta(doc)
			kind, ok := activity.KindOf(err)
			So(ok, ShouldBeTrue)
			So(kind, ShouldEqual, activity.KindMissingReportingOrgRef)
			So(err.Error(), ShouldContainSubstring, "reporting-org/@ref")
		})
	})

	Convey("Given an org with a ref but no name", t, func() {
		doc := `<iati-activity>
  <iati-identifier>X-1</iati-identifier>
  <reporting-org ref="ORG-9"/>
</iati-activity>`

		Convey("The missing name is tolerated", func() {
			meta, err := activity.ExtractMeta(doc)
			So(err, ShouldBeNil)
			So(meta.ReportingOrgRef, ShouldEqual, "ORG-9")
			So(meta.ReportingOrgName, ShouldEqual, "")
			So(meta.LastUpdated, ShouldEqual, "")
		})
	})
}

func TestIdentifierValidators(t *testing.T) {
	Convey("Given candidate identifiers", t, func() {
		Convey("Sound values pass", func() {
			So(activity.ValidIATIIdentifier("XM-DAC-41114-PROJECT-1"), ShouldBeTrue)
			So(activity.ValidOrgRef("GB-GOV-1"), ShouldBeTrue)
		})

		Convey("Empty values fail", func() {
			So(activity.ValidIATIIdentifier(""), ShouldBeFalse)
			So(activity.ValidOrgRef(""), ShouldBeFalse)
		})

		Convey("Markup-special characters fail", func() {
			So(activity.ValidIATIIdentifier("bad<id"), ShouldBeFalse)
			So(activity.ValidOrgRef("bad>ref"), ShouldBeFalse)
		})

		Convey("Length limits are enforced", func() {
			So(activity.ValidIATIIdentifier(strings.Repeat("a", 255)), ShouldBeTrue)
			So(activity.ValidIATIIdentifier(strings.Repeat("a", 256)), ShouldBeFalse)
			So(activity.ValidOrgRef(strings.Repeat("a", 100)), ShouldBeTrue)
			So(activity.ValidOrgRef(strings.Repeat("a", 101)), ShouldBeFalse)
		})
	})
}
