package http

// WriteError expone writeError a los tests externos.
var WriteError = writeError
