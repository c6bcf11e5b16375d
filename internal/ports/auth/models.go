package auth

// Claims es lo que el resto del servicio sabe del usuario autenticado.
type Claims struct {
	UserID string
	Email  string
}
