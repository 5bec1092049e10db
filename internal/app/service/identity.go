package service

// Identity is who is calling: the author token subject when one was
// presented, and always the keyed hash of the client IP.
type Identity struct {
	AuthorID   string
	AuthorName string
	IPHash     string
}

// VoterKey identifies the voter. Token holders vote as themselves across
// networks; anonymous clients vote per IP.
func (i Identity) VoterKey() string {
	switch {
	case i.AuthorID != "":
		return "author:" + i.AuthorID
	case i.IPHash != "":
		return "ip:" + i.IPHash
	default:
		return ""
	}
}
