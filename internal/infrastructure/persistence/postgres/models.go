package postgres

// UserModel é o model GORM para usuários
type UserModel struct {
	ID               string  `gorm:"type:uuid;primaryKey"`
	Name             string  `gorm:"type:varchar(50);not null"`
	Email            string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordDigest   string  `gorm:"type:varchar(255);not null"`
	RememberDigest   *string `gorm:"type:varchar(255)"`
	ActivationDigest *string `gorm:"type:varchar(255)"`
	Activated        bool    `gorm:"not null;default:false;index"`
	ActivatedAt      *int64 // unix milli
	ResetDigest      *string `gorm:"type:varchar(255)"`
	ResetSentAt      *int64 // unix milli
	Admin            bool  `gorm:"not null;default:false"`
	CreatedAt        int64 `gorm:"autoCreateTime;index"`
	UpdatedAt        int64 `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string {
	return "users"
}

// RelationshipModel é a tabela única da relação "segue".
// A chave primária composta garante no máximo uma linha por par.
type RelationshipModel struct {
	FollowerID string `gorm:"type:uuid;primaryKey"`
	FollowedID string `gorm:"type:uuid;primaryKey;index"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli"`
}

func (RelationshipModel) TableName() string {
	return "relationships"
}

// MicropostModel é o model GORM para microposts
type MicropostModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;index:idx_microposts_user_created,priority:1"`
	Content   string `gorm:"type:varchar(140);not null"`
	CreatedAt int64  `gorm:"autoCreateTime:milli;index:idx_microposts_user_created,priority:2"`
}

func (MicropostModel) TableName() string {
	return "microposts"
}

// AllModels lista os models migrados pelo AutoMigrate
func AllModels() []any {
	return []any{&UserModel{}, &RelationshipModel{}, &MicropostModel{}}
}
