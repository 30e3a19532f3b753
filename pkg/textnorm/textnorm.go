// Package textnorm normaliza texto libre y dominios antes de persistirlos.
package textnorm

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Clean recorta espacios y lleva el texto a NFC, para que "é" compuesto y descompuesto se comparen igual.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FoldKey devuelve una clave de comparación insensible a mayúsculas y espacios repetidos.
// Se usa para la unicidad de nombres de organización.
func FoldKey(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(Clean(s)), " "))
}

// Domain extrae el host de una URL o de un host suelto: minúsculas, sin puerto y sin "www.".
func Domain(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("dominio vacío")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("dominio inválido: %w", err)
	}
	host := u.Hostname()
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" || strings.ContainsAny(host, " /\\") {
		return "", fmt.Errorf("dominio inválido: %q", raw)
	}
	return host, nil
}
