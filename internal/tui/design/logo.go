package design

// Color constants for the logo
const (
	// LogoColorPrimary is the main blue of the wordmark
	LogoColorPrimary = "#3B82F6"
	// LogoColorAccent is the amber accent color
	LogoColorAccent = "#F59E0B"
)

// Logo is the wordmark shown on the sign in screen.
const Logo = `
███████╗████████╗██╗   ██╗██████╗ ██╗   ██╗██████╗ ███████╗ ██████╗██╗  ██╗
██╔════╝╚══██╔══╝██║   ██║██╔══██╗╚██╗ ██╔╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
███████╗   ██║   ██║   ██║██║  ██║ ╚████╔╝ ██║  ██║█████╗  ██║     █████╔╝
╚════██║   ██║   ██║   ██║██║  ██║  ╚██╔╝  ██║  ██║██╔══╝  ██║     ██╔═██╗
███████║   ██║   ╚██████╔╝██████╔╝   ██║   ██████╔╝███████╗╚██████╗██║  ██╗
╚══════╝   ╚═╝    ╚═════╝ ╚═════╝    ╚═╝   ╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝`

// Tagline is printed under the logo.
const Tagline = "JEE PREPARATION, TRACKED"

// LogoMinimal is a single-line version for tight spaces.
const LogoMinimal = `STUDYDECK`
