package rewrite

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/sitefrag/internal/apperr"
	"github.com/starford/sitefrag/internal/models"
	"github.com/starford/sitefrag/internal/navigation"
	"github.com/starford/sitefrag/internal/testutil"
)

const loaderScript = "js/header-footer-loader.js"

var (
	homePage  = models.Page{Path: "index.html", Name: "index.html", Mode: models.ModeHome}
	aboutPage = models.Page{Path: "pages/about.html", Name: "about.html", Mode: models.ModeSubpage}
)

func newInliner() *Inliner {
	return NewInliner(navigation.DefaultTable(), Fragments{
		Header: testutil.HeaderFragment,
		Footer: testutil.FooterFragment,
	}, loaderScript)
}

func TestExtract_MarkupPage(t *testing.T) {
	x := NewExtractor(DefaultExtractOptions())
	out, err := x.Extract([]byte(testutil.MarkupPage("About")))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got := string(out)

	wants := []string{
		"<body class=\"bg-white\" data-page=\"About\">\n\n    <!-- Header Placeholder -->\n    <div id=\"header-placeholder\"></div>\n\n    <main>",
		"<p>Content stays.</p>",
		"    <!-- Footer Placeholder -->\n    <div id=\"footer-placeholder\"></div>",
		`<script src="https://unpkg.com/aos@2.3.1/dist/aos.js"></script>`,
		`<script src="../js/header-footer-loader.js"></script>`,
		"duration: 800,",
		"once: true,",
		"</script>\n\n</body>\n</html>\n",
	}
	for _, w := range wants {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q in:\n%s", w, got)
		}
	}
	for _, gone := range []string{"<header", "<footer", "site-header"} {
		if strings.Contains(got, gone) {
			t.Errorf("%q should have been extracted", gone)
		}
	}
	if strings.Count(got, `src="../js/main.js"`) != 1 {
		t.Error("trailing page scripts inside the footer region should be replaced, not duplicated")
	}
}

func TestExtract_Idempotent(t *testing.T) {
	x := NewExtractor(DefaultExtractOptions())
	first, err := x.Extract([]byte(testutil.MarkupPage("About")))
	if err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	second, err := x.Extract(first)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if string(second) != string(first) {
		t.Errorf("second run changed the page:\n%s", second)
	}
}

func TestExtract_NoRegion(t *testing.T) {
	x := NewExtractor(DefaultExtractOptions())
	_, err := x.Extract([]byte(testutil.BarePage))
	if !errors.Is(err, apperr.ErrRegionNotFound) {
		t.Fatalf("err = %v, want ErrRegionNotFound", err)
	}
}

func TestExtract_CustomTrailer(t *testing.T) {
	x := NewExtractor(ExtractOptions{Scripts: []string{"../js/app.js"}, AOSDuration: 400, AOSOnce: false})
	out, err := x.Extract([]byte(testutil.MarkupPage("About")))
	if err != nil {
		t.Fatal(err)
	}
	got := string(out)
	for _, w := range []string{`<script src="../js/app.js"></script>`, "duration: 400,", "once: false,"} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q", w)
		}
	}
	if strings.Contains(got, "aos.js") {
		t.Error("default scripts should not be emitted")
	}
}

func TestInline_PlaceholderSubpage(t *testing.T) {
	src := testutil.PlaceholderPage("About", "../js/header-footer-loader.js")
	out, err := newInliner().Inline([]byte(src), aboutPage)
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	got := string(out)

	for _, w := range []string{
		`<body class="bg-light-gray text-dark-gray">`,
		`href="about.html" class="nav-link nav-about active"`,
		`src="../images/Logo.png" alt="Logo" class="logo-img"`,
		`href="careers.html" class="text-gray-400`,
		"<h1>About</h1>",
	} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q", w)
		}
	}
	for _, gone := range []string{"Header Placeholder", "footer-placeholder", "header-footer-loader.js"} {
		if strings.Contains(got, gone) {
			t.Errorf("%q should be gone", gone)
		}
	}
}

func TestInline_HomePage(t *testing.T) {
	src := testutil.PlaceholderPage("Home", loaderScript)
	out, err := newInliner().Inline([]byte(src), homePage)
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	got := string(out)
	for _, w := range []string{
		`href="pages/about.html" class="nav-link nav-about"`,
		`href="index.html" class="nav-link nav-home active"`,
		`src="images/Logo.png" alt="Logo" class="footer-logo"`,
	} {
		if !strings.Contains(got, w) {
			t.Errorf("missing %q", w)
		}
	}
	if strings.Contains(got, loaderScript) {
		t.Error("loader script should be removed")
	}
}

func TestInline_StructuralFallback(t *testing.T) {
	src := testutil.MarkupPage("Insurance")
	page := models.Page{Path: "pages/insurance.html", Name: "insurance.html", Mode: models.ModeSubpage}
	out, err := newInliner().Inline([]byte(src), page)
	if err != nil {
		t.Fatalf("Inline: %v", err)
	}
	got := string(out)

	if !strings.Contains(got, "<body class=\"bg-white\" data-page=\"Insurance\">\n\n<div id=\"contact-bar\"") {
		t.Errorf("body tag should be kept and followed by the header:\n%s", got)
	}
	if strings.Contains(got, `<a href="../index.html" class="logo-link">Logo</a>`) {
		t.Error("old header should be replaced")
	}
	if strings.Contains(got, "footer-note") {
		t.Error("old footer should be replaced")
	}
	if !strings.Contains(got, `class="nav-link nav-insurance active"`) {
		t.Error("insurance should be active")
	}
	if !strings.Contains(got, "<p>Content stays.</p>") {
		t.Error("page content lost")
	}
}

func TestInline_Converges(t *testing.T) {
	in := newInliner()
	src := []byte(testutil.PlaceholderPage("About", "../js/header-footer-loader.js"))
	first, err := in.Inline(src, aboutPage)
	if err != nil {
		t.Fatal(err)
	}
	second, err := in.Inline(first, aboutPage)
	if err != nil {
		t.Fatal(err)
	}
	third, err := in.Inline(second, aboutPage)
	if err != nil {
		t.Fatal(err)
	}
	if string(third) != string(second) {
		t.Errorf("repeated inlining keeps changing the page:\n%s", third)
	}
	if strings.Count(string(third), "<header") != 1 || strings.Count(string(third), "<footer") != 1 {
		t.Error("header/footer duplicated by repeated inlining")
	}
}

func TestInline_NoRegion(t *testing.T) {
	_, err := newInliner().Inline([]byte(testutil.BarePage), aboutPage)
	if !errors.Is(err, apperr.ErrRegionNotFound) {
		t.Fatalf("err = %v, want ErrRegionNotFound", err)
	}
}

func TestRoundTrip_InlineThenExtract(t *testing.T) {
	src := testutil.PlaceholderPage("About", "../js/header-footer-loader.js")
	inlined, err := newInliner().Inline([]byte(src), aboutPage)
	if err != nil {
		t.Fatal(err)
	}
	extracted, err := NewExtractor(DefaultExtractOptions()).Extract(inlined)
	if err != nil {
		t.Fatal(err)
	}
	got := string(extracted)

	headerAt := strings.Index(got, "<!-- Header Placeholder -->")
	mainAt := strings.Index(got, "<main>")
	footerAt := strings.Index(got, "<!-- Footer Placeholder -->")
	bodyAt := strings.Index(got, `<body class="bg-light-gray text-dark-gray">`)
	if bodyAt < 0 || headerAt < bodyAt || mainAt < headerAt || footerAt < mainAt {
		t.Errorf("region order broken: body=%d header=%d main=%d footer=%d\n%s",
			bodyAt, headerAt, mainAt, footerAt, got)
	}
	if !strings.HasSuffix(got, "</body>\n</html>\n") {
		t.Errorf("document tail changed:\n%s", got)
	}
}
