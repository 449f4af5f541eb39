package models

// Direction is the decision of which side overwrites the other.
type Direction string

const (
	// DirectionNone means both sides are empty.
	DirectionNone Direction = "none"
	// DirectionInSync means both newest files carry the same timestamp.
	DirectionInSync Direction = "in-sync"
	// DirectionPush means the local side is newer and is uploaded.
	DirectionPush Direction = "push"
	// DirectionPull means the remote side is newer and is downloaded.
	DirectionPull Direction = "pull"
)

// Plan is the outcome of comparing two listings.
type Plan struct {
	Direction Direction

	Local     PasswordFile
	HasLocal  bool
	Remote    PasswordFile
	HasRemote bool
}

// Source returns the file that wins under the plan's direction.
func (p Plan) Source() (PasswordFile, bool) {
	switch p.Direction {
	case DirectionPush:
		return p.Local, true
	case DirectionPull:
		return p.Remote, true
	default:
		return PasswordFile{}, false
	}
}

// Decide compares the newest files of both listings. The listing whose
// maximum timestamp is later is the newer one; equal maxima are in sync and
// an empty side always loses to a non-empty one.
func Decide(local, remote Listing) Plan {
	var p Plan
	p.Local, p.HasLocal = local.Newest()
	p.Remote, p.HasRemote = remote.Newest()

	switch {
	case !p.HasLocal && !p.HasRemote:
		p.Direction = DirectionNone
	case !p.HasRemote:
		p.Direction = DirectionPush
	case !p.HasLocal:
		p.Direction = DirectionPull
	case p.Local.ModTime.After(p.Remote.ModTime):
		p.Direction = DirectionPush
	case p.Remote.ModTime.After(p.Local.ModTime):
		p.Direction = DirectionPull
	default:
		p.Direction = DirectionInSync
	}

	return p
}
