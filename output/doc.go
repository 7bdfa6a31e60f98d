// Package output renders query results.
//
// Every formatter takes the ordered records the query engine returns, so
// columns appear in select-list order.
//
// # Supported Formats
//
//   - table: bordered text table (the default)
//   - json: JSON Lines, one object per record
//   - csv: header row from the first record, then one row per record
//
// A diagnostic record ({"error": ...} or {"message": ...}) is not a result
// set; WriteDiagnostic prints it as indented JSON whatever format was asked
// for.
//
//	f, err := output.New("csv", os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, err := engine.Evaluate(sql)
//	if err != nil {
//	    output.WriteDiagnostic(os.Stdout, relation.ErrorRecord(err.Error()))
//	    return
//	}
//	if err := output.Write(f, os.Stdout, records); err != nil {
//	    log.Fatal(err)
//	}
package output
