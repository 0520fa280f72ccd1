package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create processes table
			CREATE TABLE processes (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				version VARCHAR(64) NOT NULL DEFAULT '',
				package_name VARCHAR(255) NOT NULL,
				definition JSONB NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_processes_package_name ON processes(package_name);
		`,
		2: `
			-- Node counts for listing without decoding definitions
			ALTER TABLE processes ADD COLUMN node_count INTEGER NOT NULL DEFAULT 0;
		`,
	}
}
