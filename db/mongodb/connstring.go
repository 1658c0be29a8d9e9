package mongodb

import "go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

func connStringDatabase(url string) (string, error) {
	cs, err := connstring.ParseAndValidate(url)
	if err != nil {
		return "", err
	}
	return cs.Database, nil
}
