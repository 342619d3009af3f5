package atendimento

import (
	"crypto/rand"
	"fmt"
	"time"
)

const protocoloCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GerarProtocolo gera um número de protocolo no formato ANO-MES-DIA-XXXXXX,
// onde X são caracteres alfanuméricos maiúsculos. Unicidade é garantida pela
// constraint do banco; colisão dentro do mesmo dia é improvável (36^6).
func GerarProtocolo(now time.Time) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		// rand.Read em crypto/rand não falha em plataformas suportadas
		panic(fmt.Sprintf("protocolo: %v", err))
	}
	for i, b := range suffix {
		suffix[i] = protocoloCharset[int(b)%len(protocoloCharset)]
	}
	return fmt.Sprintf("%s-%s", now.Format("2006-01-02"), suffix)
}
