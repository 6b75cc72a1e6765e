package narrative_test

import (
	"testing"

	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/narrative"
	"github.com/LeighHMitchell/AIMS-sub016/internal/domain/rawtree"
	. "github.com/smartystreets/goconvey/convey"
)

func parse(t *testing.T, doc string) *rawtree.Node {
	t.Helper()
	node, err := rawtree.Parse(doc)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return node
}

func TestResolve(t *testing.T) {
	Convey("Given narratives in several languages", t, func() {
		node := parse(t, `<title>
  <narrative xml:lang="fr">Education primaire</narrative>
  <narrative xml:lang="en">Primary education</narrative>
  <narrative xml:lang="es">Educacion primaria</narrative>
</title>`)

		Convey("The preferred language wins regardless of position", func() {
			text, ok := narrative.Resolve(node, "en")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Primary education")
		})

		Convey("Another preferred language is honored too", func() {
			text, ok := narrative.Resolve(node, "es")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Educacion primaria")
		})

		Convey("A missing preferred language falls back to document order", func() {
			text, ok := narrative.Resolve(node, "de")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Education primaire")
		})
	})

	Convey("Given a single untagged narrative", t, func() {
		node := parse(t, `<title><narrative>Only one</narrative></title>`)

		Convey("It is returned for any preferred language", func() {
			text, ok := narrative.Resolve(node, "en")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Only one")
		})
	})

	Convey("Given a node with direct text and no narratives", t, func() {
		node := parse(t, `<name>Plain name</name>`)

		Convey("The direct text is used", func() {
			text, ok := narrative.Resolve(node, "en")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Plain name")
		})
	})

	Convey("Given a node with nothing readable", t, func() {
		node := parse(t, `<name><narrative xml:lang="en"></narrative></name>`)

		Convey("Absence is reported, not an error", func() {
			text, ok := narrative.Resolve(node, "en")
			So(ok, ShouldBeFalse)
			So(text, ShouldEqual, "")
		})
	})

	Convey("Given a nil node", t, func() {
		Convey("Resolve reports absence", func() {
			_, ok := narrative.Resolve(nil, "en")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given an empty preferred language", t, func() {
		node := parse(t, `<title>
  <narrative xml:lang="fr">FR</narrative>
  <narrative xml:lang="en">EN</narrative>
</title>`)

		Convey("The default language is used", func() {
			text, ok := narrative.Resolve(node, "")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "EN")
		})
	})
}
