package server

// Server joins the HTTP handlers of every resource into one router target.
type Server struct {
	ShaftServer
}

func NewServer(
	shaftServer ShaftServer,
) Server {
	return Server{
		ShaftServer: shaftServer,
	}
}
