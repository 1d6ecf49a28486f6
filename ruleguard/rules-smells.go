// Package gorules holds the ruleguard checks run by gocritic over docsense.
package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two guards with the same return can be merged with ||.
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}

// httpClients keeps every outbound call on a client with an explicit timeout.
func httpClients(m dsl.Matcher) {
	m.Match(`http.DefaultClient`).
		Report(`http.DefaultClient has no timeout; build an *http.Client with Timeout set`)

	m.Match(`http.Get($*_)`, `http.Post($*_)`, `http.PostForm($*_)`, `http.Head($*_)`).
		Report(`package-level http helpers use DefaultClient; call a configured *http.Client instead`)
}

// logging keeps library packages on the shared slog logger.
func logging(m dsl.Matcher) {
	m.Match(`log.Printf($*_)`, `log.Println($*_)`, `log.Print($*_)`, `log.Fatalf($*_)`, `log.Fatal($*_)`).
		Where(m.File().Imports("log")).
		Report(`use the slog logger from internal/observability instead of the log package`)

	m.Match(`fmt.Println($*_)`, `fmt.Printf($*_)`, `fmt.Print($*_)`).
		Where(!m.File().PkgPath.Matches(`/cmd/`)).
		Report(`do not write to stdout outside cmd/; return the value or log it`)
}

// sentinels keeps wrapped errors comparable.
func sentinels(m dsl.Matcher) {
	m.Match(`$err == $target`, `$err != $target`).
		Where(m["err"].Type.Is(`error`) && m["target"].Text.Matches(`^(\w+\.)?Err\w+$`)).
		Report(`compare sentinel errors with errors.Is so wrapped errors still match`)
}
