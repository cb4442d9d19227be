package config

// preprocessSource rewrites config source into a form the zygomys
// reader accepts:
//
//   - :keyword becomes the string literal "__kw_keyword", so keyword
//     arguments need no global symbol registration (`:=` survives);
//   - hyphens inside identifiers become underscores (box-blur ->
//     box_blur), since zygomys reads a bare hyphen as subtraction;
//   - ; line comments become // comments.
//
// String literals pass through untouched.
func preprocessSource(source string) string {
	rw := rewriter{
		src: []byte(source),
		out: make([]byte, 0, len(source)+len(source)/4),
	}
	for rw.pos < len(rw.src) {
		switch rw.src[rw.pos] {
		case '"':
			rw.quoted('"', true)
		case '`':
			rw.quoted('`', false)
		case ';':
			rw.comment()
		case ':':
			rw.colon()
		case '-':
			rw.hyphen()
		default:
			rw.out = append(rw.out, rw.src[rw.pos])
			rw.pos++
		}
	}
	return string(rw.out)
}

// rewriter is a single-pass cursor over the source bytes.
type rewriter struct {
	src []byte
	out []byte
	pos int
}

// quoted copies a string literal through verbatim, honoring backslash
// escapes only for double-quoted literals.
func (rw *rewriter) quoted(delim byte, escapes bool) {
	rw.out = append(rw.out, rw.src[rw.pos])
	rw.pos++
	for rw.pos < len(rw.src) && rw.src[rw.pos] != delim {
		if escapes && rw.src[rw.pos] == '\\' && rw.pos+1 < len(rw.src) {
			rw.out = append(rw.out, rw.src[rw.pos], rw.src[rw.pos+1])
			rw.pos += 2
			continue
		}
		rw.out = append(rw.out, rw.src[rw.pos])
		rw.pos++
	}
	if rw.pos < len(rw.src) {
		rw.out = append(rw.out, rw.src[rw.pos])
		rw.pos++
	}
}

// comment converts a ; line comment (any number of leading semicolons)
// into a // comment.
func (rw *rewriter) comment() {
	rw.out = append(rw.out, '/', '/')
	for rw.pos < len(rw.src) && rw.src[rw.pos] == ';' {
		rw.pos++
	}
	for rw.pos < len(rw.src) && rw.src[rw.pos] != '\n' {
		rw.out = append(rw.out, rw.src[rw.pos])
		rw.pos++
	}
}

// colon rewrites :keyword into a marker string literal. The assignment
// operator := and any other non-keyword colon pass through.
func (rw *rewriter) colon() {
	if rw.pos+1 < len(rw.src) && rw.src[rw.pos+1] == '=' {
		rw.out = append(rw.out, ':', '=')
		rw.pos += 2
		return
	}
	if rw.pos+1 >= len(rw.src) || !isLetter(rw.src[rw.pos+1]) {
		rw.out = append(rw.out, ':')
		rw.pos++
		return
	}
	end := rw.pos + 1
	for end < len(rw.src) && isKWChar(rw.src[end]) {
		end++
	}
	rw.out = append(rw.out, '"')
	rw.out = append(rw.out, kwPrefix...)
	rw.out = append(rw.out, rw.src[rw.pos+1:end]...)
	rw.out = append(rw.out, '"')
	rw.pos = end
}

// hyphen becomes an underscore when it sits between identifier
// characters; a minus operator passes through.
func (rw *rewriter) hyphen() {
	interior := rw.pos > 0 && isIdentChar(rw.src[rw.pos-1]) &&
		rw.pos+1 < len(rw.src) && isLetter(rw.src[rw.pos+1])
	if interior {
		rw.out = append(rw.out, '_')
	} else {
		rw.out = append(rw.out, '-')
	}
	rw.pos++
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
