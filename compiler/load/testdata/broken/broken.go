package broken

type Secret struct {
	ID    int64  `dao:"id,primary"`
	Token string `dao:"token"`
}

func (Secret) TableName() string { return "secret" }
