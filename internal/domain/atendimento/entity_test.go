package atendimento

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
)

func novoAguardando() *Atendimento {
	now := time.Now()
	return &Atendimento{
		ID:         uuid.New(),
		Protocolo:  GerarProtocolo(now),
		Status:     StatusAguardando,
		ContatoID:  uuid.New(),
		IniciadoEm: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestAssumirMovesParaEmAndamento(t *testing.T) {
	atd := novoAguardando()
	atendente := uuid.New()

	if err := atd.Assumir(atendente); err != nil {
		t.Fatalf("Assumir: %v", err)
	}
	if atd.Status != StatusEmAndamento {
		t.Fatalf("status = %s, want %s", atd.Status, StatusEmAndamento)
	}
	if atd.AtendenteID == nil || *atd.AtendenteID != atendente {
		t.Fatal("atendente not set")
	}
	if atd.AtendidoEm == nil {
		t.Fatal("atendidoEm not set")
	}
}

func TestAssumirPorOutroAtendenteFalha(t *testing.T) {
	atd := novoAguardando()
	if err := atd.Assumir(uuid.New()); err != nil {
		t.Fatalf("Assumir: %v", err)
	}

	if err := atd.Assumir(uuid.New()); !errors.Is(err, ErrAtendimentoJaAssumido) {
		t.Fatalf("err = %v, want ErrAtendimentoJaAssumido", err)
	}
}

func TestReassumirPeloMesmoAtendenteOK(t *testing.T) {
	atd := novoAguardando()
	atendente := uuid.New()
	if err := atd.Assumir(atendente); err != nil {
		t.Fatalf("Assumir: %v", err)
	}
	primeiro := *atd.AtendidoEm

	if err := atd.Assumir(atendente); err != nil {
		t.Fatalf("reassumir: %v", err)
	}
	if !atd.AtendidoEm.Equal(primeiro) {
		t.Fatal("atendidoEm overwritten on reassumir")
	}
}

func TestAssumirFinalizadoFalha(t *testing.T) {
	atd := novoAguardando()
	if err := atd.Assumir(uuid.New()); err != nil {
		t.Fatalf("Assumir: %v", err)
	}
	if err := atd.Finalizar(); err != nil {
		t.Fatalf("Finalizar: %v", err)
	}

	err := atd.Assumir(uuid.New())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatal("expected TransitionError")
	}
	if te.From != StatusFinalizado {
		t.Fatalf("From = %s, want %s", te.From, StatusFinalizado)
	}
}

func TestFinalizarAguardandoFalha(t *testing.T) {
	atd := novoAguardando()
	if err := atd.Finalizar(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestIsAberto(t *testing.T) {
	atd := novoAguardando()
	if !atd.IsAberto() {
		t.Fatal("aguardando should be aberto")
	}

	if err := atd.Assumir(uuid.New()); err != nil {
		t.Fatalf("Assumir: %v", err)
	}
	if !atd.IsAberto() {
		t.Fatal("em_andamento should be aberto")
	}

	if err := atd.Finalizar(); err != nil {
		t.Fatalf("Finalizar: %v", err)
	}
	if atd.IsAberto() {
		t.Fatal("finalizado should not be aberto")
	}
}

func TestGerarProtocoloFormato(t *testing.T) {
	now := time.Date(2026, 8, 30, 15, 4, 5, 0, time.UTC)
	re := regexp.MustCompile(`^2026-08-30-[A-Z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		p := GerarProtocolo(now)
		if !re.MatchString(p) {
			t.Fatalf("protocolo %q does not match expected format", p)
		}
		seen[p] = true
	}
	// colisões em 50 amostras de um espaço de 36^6 indicam gerador quebrado
	if len(seen) < 45 {
		t.Fatalf("too many duplicate protocolos: %d unique of 50", len(seen))
	}
}
