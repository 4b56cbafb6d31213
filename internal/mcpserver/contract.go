package mcpserver

// FragmentContract describes the markup conventions the shared header and
// footer must follow so the inliner can rewrite them for each page.
const FragmentContract = `# sitefrag Fragment Contract

The shared fragments live in includes/header.html and includes/footer.html.
They are written once with placeholder links; sitefrag resolves them per page.

## Header

1. The first ` + "`href=\"#\"`" + ` is the logo link. It becomes the home page link.
2. The first ` + "`src=\"#\"`" + ` is the logo image.
3. Desktop links look like ` + "`<a href=\"#\" class=\"nav-link nav-<id>\">`" + ` (or
   ` + "`dropdown-link`" + ` for the services menu). The class prefix must match the
   navigation table exactly, followed by ` + "`nav-<id>`" + `.
4. Mobile links carry no href: ` + "`<a class=\"<mobile classes> mobile-nav-<id>\">`" + `.
   The href is inserted in front of the class attribute.

## Footer

1. The first ` + "`src=\"#\"`" + ` is the footer logo.
2. Footer links look like ` + "`<a href=\"#\" class=\"<footer classes> footer-nav-<id>\">`" + `.

## Rules

- Ids outside the navigation table are left untouched.
- The current page's desktop link gets the ` + "`active`" + ` class.
- The header fragment should contain a ` + "`<header>`" + ` element and the footer
  fragment a ` + "`<footer>`" + ` element, so that a later inline pass can find them again.
`
