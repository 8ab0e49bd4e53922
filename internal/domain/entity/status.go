package entity

import "github.com/jhoicas/joyeria-crm/internal/domain"

// Transitions conjunto cerrado de estados de una pantalla y sus transiciones legales.
// La clave es el estado origen; el valor, los destinos permitidos.
type Transitions map[string][]string

// Known indica si status pertenece al conjunto.
func (t Transitions) Known(status string) bool {
	_, ok := t[status]
	return ok
}

// Allowed devuelve los destinos legales desde from (nil si from es terminal o desconocido).
func (t Transitions) Allowed(from string) []string {
	return t[from]
}

// Check valida from -> to. Un no-op (from == to) no es una transición y se rechaza.
func (t Transitions) Check(from, to string) error {
	if !t.Known(to) {
		return domain.ErrUnknownStatus
	}
	for _, s := range t[from] {
		if s == to {
			return nil
		}
	}
	return domain.ErrInvalidTransition
}
