package db

// RecentEventsCLI opens the journal read-side for the debug tool.
func RecentEventsCLI(dbPath string, limit int) ([]Entry, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()
	return RecentEvents(dbConn, limit)
}

func SessionsCLI(dbPath string) ([]Session, error) {
	dbConn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()
	return GetSessions(dbConn)
}
