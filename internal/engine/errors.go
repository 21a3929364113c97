package engine

import "errors"

var (
	// ErrInvalidArgument método desconocido u otro parámetro inválido.
	ErrInvalidArgument = errors.New("argumento inválido")
	// ErrNotInitialized la matriz todavía no terminó de construirse.
	ErrNotInitialized = errors.New("motor de recomendaciones no inicializado")
	// ErrNotFound la película o usuario no existe en el store.
	ErrNotFound = errors.New("no encontrado")
)
