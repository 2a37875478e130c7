// Package fieldmask matérialise l'ensemble des clés présentes dans un corps
// JSON de mise à jour partielle. Les handlers PATCH décident champ par champ
// via le masque au lieu d'inspecter le payload à l'exécution.
package fieldmask

import (
	"bytes"
	"encoding/json"
)

// Mask est l'ensemble des clés présentes dans le payload. Une valeur non-nil
// porte le sous-masque de l'objet imbriqué ; un scalaire (ou null) donne nil.
type Mask map[string]Mask

// FromJSON construit le masque à partir du corps brut de la requête.
func FromJSON(raw []byte) (Mask, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	mask := make(Mask, len(fields))
	for key, value := range fields {
		value = bytes.TrimSpace(value)
		if len(value) > 0 && value[0] == '{' {
			sub, err := FromJSON(value)
			if err != nil {
				return nil, err
			}
			mask[key] = sub
		} else {
			mask[key] = nil
		}
	}
	return mask, nil
}

// Has indique si la clé figure dans le payload (y compris avec une valeur null).
func (m Mask) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// Sub retourne le masque de l'objet imbriqué, ou nil si la clé est absente
// ou scalaire. Sûr sur un masque nil.
func (m Mask) Sub(field string) Mask {
	if m == nil {
		return nil
	}
	return m[field]
}
