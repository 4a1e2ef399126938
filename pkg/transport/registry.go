package transport

import "github.com/rabih-ultra-tms/Ultra-TMS-sub008/pkg/common/models"

// Registry maps protocol tags to transports. Unknown or empty protocols
// fall back to FTP, the baseline channel.
type Registry struct {
	transports map[models.Protocol]Transport
	fallback   Transport
}

func NewRegistry() *Registry {
	ftp := NewFTPTransport()
	r := &Registry{
		transports: make(map[models.Protocol]Transport),
		fallback:   ftp,
	}
	r.Register(ftp)
	r.Register(NewSFTPTransport())
	r.Register(NewAS2Transport())
	return r
}

func (r *Registry) Register(t Transport) {
	r.transports[t.Protocol()] = t
}

func (r *Registry) For(protocol models.Protocol) Transport {
	if t, ok := r.transports[protocol]; ok {
		return t
	}
	return r.fallback
}
