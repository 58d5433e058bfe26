package config

// DefaultConfigYAML 内置默认配置，可被外部配置文件或环境变量覆盖
var DefaultConfigYAML = []byte(`server:
  port: ":8080"
  mode: "debug"
  frontend_url: "http://localhost:5173"

database:
  host: "127.0.0.1"
  port: "3306"
  username: "fintrack"
  password: "fintrack"
  dbname: "fintrack"
  charset: "utf8mb4"

jwt:
  secret: "change-me-in-production"
  expire_hours: 168

google:
  client_id: ""
`)
