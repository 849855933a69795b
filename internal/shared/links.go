package shared

// Menu link keys. A MenuAssignment grants one user one of these links;
// route guards look routes up by the same key.
const (
	LinkDashboard = "dashboard"
	LinkKomplain  = "komplain"
	LinkTugas     = "tugas"
	LinkPoskas    = "poskas"
	LinkUsers     = "users"
	LinkPicMenu   = "pic-menu"
)

// AssignableLinks lists links an Owner may assign through the PIC-menu screen.
func AssignableLinks() []string {
	return []string{
		LinkKomplain,
		LinkTugas,
		LinkPoskas,
		LinkUsers,
		LinkPicMenu,
	}
}

// KnownLink reports whether the key names a menu this application serves.
func KnownLink(link string) bool {
	switch link {
	case LinkDashboard, LinkKomplain, LinkTugas, LinkPoskas, LinkUsers, LinkPicMenu:
		return true
	}
	return false
}
