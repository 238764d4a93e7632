package consulta

import (
	"context"
	"testing"
)

func extratorDe(t *testing.T, nome string, registros ...Registro) *Extrator {
	t.Helper()
	cfg, ok := ConfiguracoesEntidade()[nome]
	if !ok {
		t.Fatalf("entidade sem configuração: %s", nome)
	}
	return NovoExtrator(cfg, NovaTabela(registros))
}

func TestExtrairCodigoComGatilho(t *testing.T) {
	extrator := extratorDe(t, "elemento",
		Registro{Codigo: "05", Descricao: "Obras e Instalações"},
	)
	ctx := context.Background()

	// Sem a palavra de gatilho, o código solto não pode ser lido como elemento
	resultados, err := extrator.Extrair(ctx, "quanto foi gasto com 05")
	if err != nil {
		t.Fatal(err)
	}
	if len(resultados) != 0 {
		t.Errorf("código sem gatilho resolvido indevidamente: %v", resultados)
	}

	resultados, err = extrator.Extrair(ctx, "gasto com elemento 05")
	if err != nil {
		t.Fatal(err)
	}
	if len(resultados) != 1 || resultados[0].Codigo != "05" {
		t.Errorf("código com gatilho não resolvido: %v", resultados)
	}
	if resultados[0].TrechoEncontrado != "05" {
		t.Errorf("trecho do código = %q, esperado %q", resultados[0].TrechoEncontrado, "05")
	}
}

func TestExtrairDescricaoSemGatilho(t *testing.T) {
	extrator := extratorDe(t, "elemento",
		Registro{Codigo: "51", Descricao: "Obras e Instalações"},
	)

	// A fase de descrição não depende do gatilho de código
	frase := "quanto foi gasto com obras e instalacoes"
	resultados, err := extrator.Extrair(context.Background(), frase)
	if err != nil {
		t.Fatal(err)
	}
	if len(resultados) != 1 || resultados[0].Codigo != "51" {
		t.Fatalf("descrição não resolvida: %v", resultados)
	}

	// Matches de descrição carregam a frase inteira como trecho
	if resultados[0].TrechoEncontrado != frase {
		t.Errorf("trecho da descrição = %q, esperado a frase inteira", resultados[0].TrechoEncontrado)
	}
}

func TestProgramaAcaoExclusaoMutua(t *testing.T) {
	ctx := context.Background()

	programa := extratorDe(t, "programa",
		Registro{Codigo: "0042", Descricao: "Gestão da Educação"},
	)
	acao := extratorDe(t, "acao",
		Registro{Codigo: "2077", Descricao: "Manutenção das Escolas"},
	)

	// Fragmento com "acao" não pode resolver programa
	resultados, _ := programa.Extrair(ctx, "acao 0042")
	if len(resultados) != 0 {
		t.Errorf("programa resolvido em fragmento de ação: %v", resultados)
	}

	// Fragmento com "programa" não pode resolver ação
	resultados, _ = acao.Extrair(ctx, "programa 2077")
	if len(resultados) != 0 {
		t.Errorf("ação resolvida em fragmento de programa: %v", resultados)
	}

	resultados, _ = programa.Extrair(ctx, "programa 0042")
	if len(resultados) != 1 || resultados[0].Codigo != "0042" {
		t.Errorf("programa 0042 não resolvido: %v", resultados)
	}

	resultados, _ = acao.Extrair(ctx, "acao 2077")
	if len(resultados) != 1 || resultados[0].Codigo != "2077" {
		t.Errorf("ação 2077 não resolvida: %v", resultados)
	}
}

func TestProgramaCodigoInelegivel(t *testing.T) {
	extrator := extratorDe(t, "programa",
		Registro{Codigo: "1234", Descricao: "Programa Histórico"},
	)

	// 1234 não tem zero à esquerda, não é menor que 1000 nem 9999: o código
	// não dispara busca e a presença dele desativa a fase de descrição
	resultados, _ := extrator.Extrair(context.Background(), "programa historico 1234")
	if len(resultados) != 0 {
		t.Errorf("código inelegível resolvido: %v", resultados)
	}
}

func TestSensibilidadeReduzPercentual(t *testing.T) {
	extrator := extratorDe(t, "natureza",
		Registro{Codigo: "339039", Descricao: "Aplicações Diretas"},
	)
	ctx := context.Background()

	// Metade das palavras presente: abaixo do padrão 0.7
	resultados, _ := extrator.Extrair(ctx, "gastos com aplicacoes em 2024")
	if len(resultados) != 0 {
		t.Errorf("descrição aceita abaixo do percentual padrão: %v", resultados)
	}

	// Com a palavra "natureza" o percentual cai para 0.5
	resultados, _ = extrator.Extrair(ctx, "natureza de aplicacoes em 2024")
	if len(resultados) != 1 || resultados[0].Codigo != "339039" {
		t.Errorf("percentual de sensibilidade não aplicado: %v", resultados)
	}
}

func TestExtrairSemDuplicados(t *testing.T) {
	extrator := extratorDe(t, "fonte",
		Registro{Codigo: "100", Descricao: "Recursos Ordinários"},
	)

	// Código e descrição apontam para o mesmo registro
	resultados, _ := extrator.Extrair(context.Background(), "fonte 100 recursos ordinarios")
	if len(resultados) != 1 {
		t.Errorf("registro duplicado no resultado: %v", resultados)
	}
	// O código vence e define o trecho
	if resultados[0].TrechoEncontrado != "100" {
		t.Errorf("trecho = %q, esperado o código", resultados[0].TrechoEncontrado)
	}
}

func TestExtrairCodigoEntreDigitos(t *testing.T) {
	extrator := extratorDe(t, "contrato",
		Registro{Codigo: "12345678", Descricao: "Contrato de Obra"},
	)
	ctx := context.Background()

	// Código colado a letras ainda vale; só vizinhança de dígito invalida
	resultados, _ := extrator.Extrair(ctx, "contrato n12345678")
	if len(resultados) != 1 || resultados[0].Codigo != "12345678" {
		t.Errorf("código colado a letra não resolvido: %v", resultados)
	}

	// Nove dígitos contíguos não contêm um contrato válido
	resultados, _ = extrator.Extrair(ctx, "contrato 123456789")
	if len(resultados) != 0 {
		t.Errorf("sequência de nove dígitos resolvida indevidamente: %v", resultados)
	}

	// Sem o gatilho da entidade o matcher inteiro fica inativo
	resultados, _ = extrator.Extrair(ctx, "pagamento 12345678")
	if len(resultados) != 0 {
		t.Errorf("contrato resolvido sem gatilho: %v", resultados)
	}
}

func TestExtrairMnemonico(t *testing.T) {
	extrator := extratorDe(t, "unidade_gestora",
		Registro{Codigo: "140001", Mnemonico: "SEDUC", Descricao: "Secretaria da Educação"},
	)

	resultados, _ := extrator.Extrair(context.Background(), "gastos da seduc em 2024")
	if len(resultados) != 1 || resultados[0].Codigo != "140001" {
		t.Fatalf("mnemônico não resolvido: %v", resultados)
	}
	if resultados[0].TrechoEncontrado != "seduc" {
		t.Errorf("trecho do mnemônico = %q", resultados[0].TrechoEncontrado)
	}
}

func TestExtrairCodigoNormalizado(t *testing.T) {
	extrator := extratorDe(t, "poder",
		Registro{Codigo: "01", Descricao: "Executivo"},
	)
	ctx := context.Background()

	// Sem a palavra "poder" o matcher inteiro fica inativo
	resultados, _ := extrator.Extrair(ctx, "gastos do 1 em 2024")
	if len(resultados) != 0 {
		t.Errorf("poder resolvido sem gatilho: %v", resultados)
	}

	// Zeros à esquerda não importam na comparação
	resultados, _ = extrator.Extrair(ctx, "poder 1")
	if len(resultados) != 1 || resultados[0].Codigo != "01" {
		t.Errorf("código normalizado não resolvido: %v", resultados)
	}
}

func TestExtrairCodigoPorToken(t *testing.T) {
	extrator := extratorDe(t, "emenda",
		Registro{Codigo: "EM0123", Descricao: "Emenda Parlamentar de Saúde"},
	)
	ctx := context.Background()

	resultados, _ := extrator.Extrair(ctx, "emenda em0123")
	if len(resultados) != 1 || resultados[0].Codigo != "EM0123" {
		t.Errorf("código de emenda por token não resolvido: %v", resultados)
	}

	// Sem o gatilho "emenda" a fase de código não roda
	resultados, _ = extrator.Extrair(ctx, "valores de em0123")
	if len(resultados) != 0 {
		t.Errorf("código de emenda resolvido sem gatilho: %v", resultados)
	}
}
