package rules

import (
	"strings"
	"unicode"
)

// defaultCapitalizedWords are proper nouns and acronyms that may appear
// capitalised anywhere in a heading.
var defaultCapitalizedWords = []string{
	"API", "APIs", "Apple", "Auth", "AWS", "Azure", "CDN", "CLI", "CORS", "CSS", "CSV",
	"Cloudflare", "DNS", "Deno", "Discord", "Docker", "Edge", "Expo", "Figma",
	"Firebase", "Flutter", "GitHub", "GitLab", "Go", "Google", "GraphQL", "HTML",
	"HTTP", "HTTPS", "I", "ID", "IDs", "IPv4", "IPv6", "JavaScript", "JSON", "JWT",
	"JWTs", "Kotlin", "Kubernetes", "Linux", "MDX", "MFA", "Markdown", "Microsoft",
	"Next.js", "Node.js", "Nuxt", "OAuth", "PITR", "PKCE", "Postgres", "PostgreSQL",
	"PostgREST", "Prisma", "Python", "React", "Realtime", "Redis", "REST", "RLS",
	"Rust", "S3", "SAML", "SDK", "SDKs", "SMS", "SMTP", "SQL", "SSL", "SSO",
	"Stripe", "Supabase", "Svelte", "SvelteKit", "Swift", "TLS", "TypeScript",
	"UI", "URL", "URLs", "UUID", "Vercel", "Vue", "WebAuthn", "WebSocket",
	"WebSockets", "Windows", "YAML",
}

// StripSymbols trims leading and trailing characters that are neither
// letters nor digits.
func StripSymbols(word string) string {
	return strings.TrimFunc(word, isSymbol)
}

func isSymbol(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

type wordSet map[string]struct{}

func newWordSet(groups ...[]string) wordSet {
	set := wordSet{}
	for _, group := range groups {
		for _, word := range group {
			if trimmed := strings.TrimSpace(word); trimmed != "" {
				set[trimmed] = struct{}{}
			}
		}
	}
	return set
}

func (s wordSet) has(word string) bool {
	_, ok := s[word]
	return ok
}
