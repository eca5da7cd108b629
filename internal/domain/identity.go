package domain

// IdentityKey returns the duplicate-detection key of an entry.
//
//   - file:    same path
//   - command: same command id
//   - others:  same kind and label
//
// Files and commands lacking their payload fall back to kind and label.
func IdentityKey(e Entry) string {
	switch {
	case e.Kind == KindFile && e.Path != "":
		return "file:" + e.Path
	case e.Kind == KindCommand && e.CommandID != "":
		return "command:" + e.CommandID
	}
	return string(e.Kind) + "#" + e.Label
}
