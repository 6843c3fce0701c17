// Package store abre la capa de persistencia configurada.
//
// La selección del adapter es explícita (switch sobre Config.Driver): no hay registro
// global ni init() con side effects. Cada adapter vive en store/adapters/<driver> y
// expone su propio Connect; este paquete los une detrás de Connection.
//
//	conn, err := store.Open(ctx, store.Config{Driver: "mongo", MongoURI: uri})
//	if err != nil { ... }
//	defer conn.Close(ctx)
//	users := store.Instrument(conn).Users()
package store
