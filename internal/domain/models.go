package domain

// Domain contains core models owned by the remote bookstore service.

type Book struct {
	ISBN   string `json:"isbn"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type Review struct {
	ISBN     string `json:"isbn"`
	Username string `json:"username"`
	Text     string `json:"review"`
}
