package parser

import (
	"strconv"
	"strings"

	"github.com/shapestone/yamlkit/internal/scanner"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// resetDirectives restores the default tag handles and clears the version
// declaration. Called at every document boundary.
func (p *Parser) resetDirectives() {
	p.yamlVersionSeen = false
	p.tagHandles = map[string]string{
		"!":  "!",
		"!!": "tag:yaml.org,2002:",
	}
}

// processDirective handles one '%NAME args' line. Unknown directives are
// ignored.
func (p *Parser) processDirective(tok scanner.Token) error {
	fields := strings.Fields(tok.Text)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "%YAML":
		if p.yamlVersionSeen {
			return fault.New(fault.Parser, "duplicate %YAML directive", tok.Start)
		}
		p.yamlVersionSeen = true
		if len(fields) != 2 {
			return fault.New(fault.Parser, "malformed %YAML directive", tok.Start)
		}
		return p.checkVersion(fields[1], tok.Start)

	case "%TAG":
		if len(fields) != 3 {
			return fault.New(fault.Parser, "malformed %TAG directive", tok.Start)
		}
		handle, prefix := fields[1], fields[2]
		if !isTagHandle(handle) {
			return fault.Newf(fault.Parser, tok.Start,
				"ill-formed tag handle %q in %%TAG directive", handle)
		}
		p.tagHandles[handle] = prefix
	}
	return nil
}

// checkVersion accepts any 1.x version declaration. Higher minor versions
// than 1.2 parse with 1.2 semantics; other major versions are rejected.
func (p *Parser) checkVersion(version string, mark fault.Mark) error {
	major, minor, found := strings.Cut(version, ".")
	if !found {
		return fault.Newf(fault.Parser, mark, "malformed YAML version %q", version)
	}
	majorNum, err := strconv.Atoi(major)
	if err != nil {
		return fault.Newf(fault.Parser, mark, "malformed YAML version %q", version)
	}
	if _, err := strconv.Atoi(minor); err != nil {
		return fault.Newf(fault.Parser, mark, "malformed YAML version %q", version)
	}
	if majorNum != 1 {
		return fault.Newf(fault.Parser, mark, "unacceptable YAML version %q", version)
	}
	return nil
}

// isTagHandle reports whether s is '!', '!!', or '!word!'.
func isTagHandle(s string) bool {
	if s == "!" || s == "!!" {
		return true
	}
	if len(s) < 3 || s[0] != '!' || s[len(s)-1] != '!' {
		return false
	}
	for _, c := range s[1 : len(s)-1] {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// expandTag resolves a tag as written in the source into its full form:
// verbatim '!<uri>' tags are unwrapped, shorthand tags are expanded through
// the declared handles, and the bare non-specific tag '!' passes through
// for the constructor to resolve by node kind.
func (p *Parser) expandTag(text string, mark fault.Mark) (string, error) {
	if strings.HasPrefix(text, "!<") {
		uri := strings.TrimSuffix(text[2:], ">")
		if uri == "" {
			return "", fault.New(fault.Parser, "empty verbatim tag", mark)
		}
		return uri, nil
	}
	if text == "!" {
		return "!", nil
	}

	rest := text[1:]
	if idx := strings.IndexByte(rest, '!'); idx >= 0 {
		handle := text[:idx+2]
		suffix := rest[idx+1:]
		prefix, declared := p.tagHandles[handle]
		if !declared {
			return "", fault.Newf(fault.Parser, mark, "undeclared tag handle %q", handle)
		}
		return prefix + suffix, nil
	}
	return p.tagHandles["!"] + rest, nil
}
