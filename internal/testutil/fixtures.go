package testutil

// HeaderFragment mirrors includes/header.html: placeholder hrefs, a logo
// image, desktop nav, dropdown services and the mobile menu. nav-blog is not
// in the navigation table.
const HeaderFragment = `<div id="contact-bar" class="contact-bar">Call us</div>
<header class="site-header">
    <a href="#" class="logo-link"><img src="#" alt="Logo" class="logo-img"></a>
    <nav class="desktop-nav">
        <a href="#" class="nav-link nav-home">Home</a>
        <div class="services-dropdown-wrapper">
            <a href="#" class="dropdown-link nav-urgent">Urgent &amp; Primary Care</a>
            <a href="#" class="dropdown-link nav-sports">Sports Medicine</a>
            <a href="#" class="dropdown-link nav-derma">Dermatology</a>
            <a href="#" class="dropdown-link nav-wellness">Nutrition &amp; Wellness</a>
            <a href="#" class="dropdown-link nav-occupational">Occupational Health</a>
        </div>
        <a href="#" class="nav-link nav-about">About</a>
        <a href="#" class="nav-link nav-insurance">Insurance</a>
        <a href="#" class="nav-link nav-blog">Blog</a>
    </nav>
    <div id="mobile-menu" class="hidden">
        <a class="py-2 px-4 text-dark-gray font-semibold hover:bg-light-gray rounded mobile-nav-home">Home</a>
        <a class="py-2 px-4 text-dark-gray font-semibold hover:bg-light-gray rounded mobile-nav-urgent">Urgent</a>
        <a class="py-2 px-4 text-dark-gray font-semibold hover:bg-light-gray rounded mobile-nav-about">About</a>
        <a class="py-2 px-4 text-dark-gray font-semibold hover:bg-light-gray rounded mobile-nav-insurance">Insurance</a>
    </div>
</header>`

// FooterFragment mirrors includes/footer.html.
const FooterFragment = `<footer class="site-footer">
    <img src="#" alt="Logo" class="footer-logo">
    <ul>
        <li><a href="#" class="hover:text-white transition-colors footer-nav-urgent">Urgent</a></li>
        <li><a href="#" class="hover:text-white transition-colors footer-nav-sports">Sports</a></li>
        <li><a href="#" class="hover:text-white transition-colors footer-nav-derma">Dermatology</a></li>
        <li><a href="#" class="hover:text-white transition-colors footer-nav-wellness">Wellness</a></li>
        <li><a href="#" class="hover:text-white transition-colors footer-nav-occupational">Occupational</a></li>
    </ul>
    <a href="#" class="text-gray-400 hover:text-brand-orange transition-colors font-semibold footer-nav-careers">Careers</a>
</footer>`

// PlaceholderPage returns a page that loads its header and footer through
// the client-side loader. loader is the script src of the loader.
func PlaceholderPage(title, loader string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>` + title + `</title>
</head>
<body class="bg-light-gray text-dark-gray">

    <!-- Header Placeholder -->
    <div id="header-placeholder"></div>

    <main>
        <h1>` + title + `</h1>
    </main>

    <!-- Footer Placeholder -->
    <div id="footer-placeholder"></div>

    <script src="` + loader + `"></script>
</body>
</html>
`
}

// MarkupPage returns a page with a literal header and footer, as authored
// before extraction.
func MarkupPage(title string) string {
	return `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>` + title + `</title>
</head>
<body class="bg-white" data-page="` + title + `">
    <header class="site-header">
        <a href="../index.html" class="logo-link">Logo</a>
        <nav><a href="about.html" class="nav-link nav-about">About</a></nav>
    </header>

    <main>
        <h1>` + title + `</h1>
        <p>Content stays.</p>
    </main>

    <footer class="site-footer">
        <div><footer-note>nested</footer-note></div>
        <p>&copy; Clinic</p>
    </footer>
    <script src="../js/main.js"></script>
</body>
</html>
`
}

// BarePage has neither placeholders nor structural header/footer regions.
const BarePage = `<!DOCTYPE html>
<html>
<head><title>Bare</title></head>
<body>
    <main>No regions here.</main>
</body>
</html>
`
