package xrserve

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

// PrintBanner writes the startup banner with clickable local and
// network URLs. secure selects the https variant, which also walks the
// user through accepting the self-signed certificate.
func PrintBanner(w io.Writer, secure bool, ip string, port int) {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%s server running at:\n", strings.ToUpper(scheme))
	fmt.Fprintf(w, "  Local:   %s://localhost:%d\n", scheme, port)
	fmt.Fprintf(w, "  Network: %s://%s:%d\n", scheme, ip, port)
	fmt.Fprintln(w, rule)
	if secure {
		fmt.Fprintln(w, "\nIMPORTANT: Using self-signed certificate")
		fmt.Fprintln(w, "You'll need to accept the security warning in your browser:")
		fmt.Fprintln(w, "  - Click 'Advanced' or 'Show Details'")
		fmt.Fprintln(w, "  - Click 'Proceed to localhost' or 'Accept Risk'")
		fmt.Fprintln(w, "\nFor Quest 3 users:")
		fmt.Fprintln(w, "  1. Open the network URL in Oculus Browser")
		fmt.Fprintln(w, "  2. Accept the certificate warning")
		fmt.Fprintln(w, "  3. Bookmark the page for easier access")
	} else {
		fmt.Fprintln(w, "\nAccess from your AR device using the Network URL above")
		fmt.Fprintln(w, "Note: WebXR requires HTTPS. Use the https server for headsets.")
	}
	fmt.Fprintln(w, "\nPress Ctrl+C to stop the server")
	fmt.Fprintln(w, rule)
}
