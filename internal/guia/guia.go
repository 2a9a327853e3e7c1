// Package guia carrega o conteúdo do guia de SST exibido aos administradores.
package guia

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed guia.yaml
var defaultContent []byte

// Guide é o documento completo.
type Guide struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Section é um tópico do guia.
type Section struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Items   []string `yaml:"items"`
}

// Default devolve o guia embarcado no binário.
func Default() (Guide, error) {
	return Parse(defaultContent)
}

// Parse lê um guia em YAML.
func Parse(data []byte) (Guide, error) {
	var g Guide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Guide{}, fmt.Errorf("guia inválido: %w", err)
	}
	if strings.TrimSpace(g.Title) == "" {
		return Guide{}, errors.New("guia sem título")
	}
	for i, s := range g.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return Guide{}, fmt.Errorf("seção %d sem título", i+1)
		}
	}
	return g, nil
}
