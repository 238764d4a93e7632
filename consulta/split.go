package consulta

import (
	"regexp"
	"sort"
	"strings"
)

// Divisor quebra a frase traduzida em trechos, cada um começando em uma
// chave canônica reconhecida. O corte é de largura zero: a chave permanece
// no início do trecho seguinte.
type Divisor struct {
	chaves []string
}

// NovoDivisor cria um divisor para a lista de chaves configurada
func NovoDivisor(chaves []string) *Divisor {
	return &Divisor{chaves: chaves}
}

// QuebrarFrase divide a frase à esquerda de cada chave encontrada.
// Se nenhuma chave estiver presente, retorna a frase inteira como único
// trecho; frase vazia retorna lista vazia.
func (d *Divisor) QuebrarFrase(frase string) []string {
	if strings.TrimSpace(frase) == "" {
		return []string{}
	}

	// Identifica quais chaves estão presentes, como palavra inteira
	presentes := make([]string, 0)
	for _, chave := range d.chaves {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(chave) + `\b`)
		if re.MatchString(frase) {
			presentes = append(presentes, chave)
		}
	}

	// Maiores primeiro, para que "despesas_pagas" não corte
	// antes de "despesas_exercicio_pagas"
	sort.SliceStable(presentes, func(i, j int) bool {
		return len(presentes[i]) > len(presentes[j])
	})

	// Coleta as posições de corte (início de cada ocorrência de chave)
	cortes := make(map[int]bool)
	for _, chave := range presentes {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(chave) + `\b`)
		for _, par := range re.FindAllStringIndex(frase, -1) {
			cortes[par[0]] = true
		}
	}

	if len(cortes) == 0 {
		return []string{strings.TrimSpace(frase)}
	}

	posicoes := make([]int, 0, len(cortes))
	for p := range cortes {
		posicoes = append(posicoes, p)
	}
	sort.Ints(posicoes)

	// Executa a quebra e descarta trechos vazios após o trim
	trechos := make([]string, 0, len(posicoes)+1)
	inicio := 0
	for _, p := range posicoes {
		if p > inicio {
			if trecho := strings.TrimSpace(frase[inicio:p]); trecho != "" {
				trechos = append(trechos, trecho)
			}
		}
		inicio = p
	}
	if trecho := strings.TrimSpace(frase[inicio:]); trecho != "" {
		trechos = append(trechos, trecho)
	}

	return trechos
}
