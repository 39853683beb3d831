package cmd

type Config struct {
	HTTPPort      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSslMode     string
	CargusBaseURL string
	CargusAPIKey  string
	CargusTimeout string
	CursorSource  string
	SyncCronExpr  string
}
