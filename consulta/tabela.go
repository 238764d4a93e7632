package consulta

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Tabela representa uma tabela de referência em memória, carregada uma única
// vez na inicialização e somente leitura a partir daí.
type Tabela struct {
	registros []Registro
}

// NovaTabela cria uma tabela a partir de registros já validados
func NovaTabela(registros []Registro) *Tabela {
	return &Tabela{registros: registros}
}

// Registros retorna os registros da tabela
func (t *Tabela) Registros() []Registro {
	return t.registros
}

// Tamanho retorna a quantidade de registros válidos
func (t *Tabela) Tamanho() int {
	return len(t.registros)
}

// CarregarTabelaCSV lê um CSV de referência (codigo[,mnemonico],descricao),
// descarta o cabeçalho e valida o formato do código de cada linha. Linhas
// inválidas são descartadas silenciosamente; arquivo ausente ou sem nenhum
// registro válido é erro fatal de carga.
func CarregarTabelaCSV(caminho string, validador *regexp.Regexp, comMnemonico bool) (*Tabela, error) {
	arquivo, err := os.Open(caminho)
	if err != nil {
		return nil, fmt.Errorf("falha ao abrir %s: %w", caminho, err)
	}
	defer arquivo.Close()

	leitor := csv.NewReader(arquivo)
	leitor.FieldsPerRecord = -1
	leitor.LazyQuotes = true

	registros := make([]Registro, 0)
	linha := 0
	for {
		campos, err := leitor.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao ler %s: %w", caminho, err)
		}

		linha++
		if linha == 1 {
			// cabeçalho
			continue
		}

		registro, ok := montarRegistro(campos, comMnemonico)
		if !ok {
			continue
		}
		if !registroValido(registro, validador) {
			continue
		}
		registros = append(registros, registro)
	}

	if len(registros) == 0 {
		return nil, fmt.Errorf("nenhum registro válido em %s", caminho)
	}

	return NovaTabela(registros), nil
}

// montarRegistro converte os campos do CSV em um Registro. Descrições com
// vírgula chegam em múltiplos campos e são reagrupadas.
func montarRegistro(campos []string, comMnemonico bool) (Registro, bool) {
	minimo := 2
	if comMnemonico {
		minimo = 3
	}
	if len(campos) < minimo {
		return Registro{}, false
	}

	registro := Registro{Codigo: strings.TrimSpace(campos[0])}
	resto := campos[1:]
	if comMnemonico {
		registro.Mnemonico = strings.TrimSpace(campos[1])
		resto = campos[2:]
	}
	registro.Descricao = strings.Trim(strings.TrimSpace(strings.Join(resto, ",")), `"`)
	return registro, true
}

// registroValido aplica o filtro crítico de carga: código no formato da
// entidade e descrição não vazia
func registroValido(registro Registro, validador *regexp.Regexp) bool {
	if registro.Codigo == "" || registro.Codigo == "-" {
		return false
	}
	if registro.Descricao == "" || registro.Descricao == "-" {
		return false
	}
	if validador != nil && !validador.MatchString(registro.Codigo) {
		return false
	}
	return true
}
