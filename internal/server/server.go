package server

// Данный сервер просто объединяет специфичные HTTP сервера, отвечающие за обработку конкретных сущностей
type Server struct {
	DealServer
	WalletServer
}

func NewServer(
	dealServer DealServer,
	walletServer WalletServer,
) Server {
	return Server{
		DealServer:   dealServer,
		WalletServer: walletServer,
	}
}
