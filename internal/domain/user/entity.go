package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User representa um atendente conhecido pelo sistema. O tracker de presença
// só lê o ID e escreve status/última atividade; o restante pertence à camada
// de autenticação e cadastro.
type User struct {
	bun.BaseModel `bun:"table:atendo_users,alias:u"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	Nome         string     `bun:"nome,type:varchar(255),notnull" json:"nome"`
	Email        string     `bun:"email,type:varchar(255),notnull,unique" json:"email"`
	IsOnline     bool       `bun:"isOnline,type:boolean,notnull,default:false" json:"isOnline"`
	LastActivity *time.Time `bun:"lastActivity,type:timestamptz" json:"lastActivity,omitempty"`
	IsActive     bool       `bun:"isActive,type:boolean,notnull,default:true" json:"isActive"`
	CreatedAt    time.Time  `bun:"createdAt,type:timestamptz,notnull" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updatedAt,type:timestamptz,notnull" json:"updatedAt"`
}

// TableName retorna o nome da tabela para o Bun ORM
func (*User) TableName() string {
	return "atendo_users"
}

// SetOnline marca o usuário como online e registra atividade
func (u *User) SetOnline() {
	now := time.Now()
	u.IsOnline = true
	u.LastActivity = &now
	u.UpdatedAt = now
}

// SetOffline marca o usuário como offline
func (u *User) SetOffline() {
	u.IsOnline = false
	u.UpdatedAt = time.Now()
}

// TouchActivity atualiza o timestamp de última atividade
func (u *User) TouchActivity() {
	now := time.Now()
	u.LastActivity = &now
	u.UpdatedAt = now
}
